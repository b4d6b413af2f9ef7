package engine

import (
	"math/rand"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/policy"
)

// The deployment recipes below install a security policy (or flip the
// capability flags a policy depends on) over a named subset of ASes.
// They mirror the original simulator's figure2a_line_*/figure7*/
// figure8*/figure9*/figure10_aspa helpers, generalized into four shapes
// instead of one function per figure.

// deployOne installs kind on a single AS, flipping whichever capability
// flag that policy kind depends on so Accept/Prefer/ForwardTo see a
// consistent picture. A BGPsec-tiered policy without BGPSecEnabled set
// on the AS itself would never mark its own originations authenticated.
func deployOne(a *asgraph.AS, kind policy.Kind) error {
	p, err := policy.ByKind(kind)
	if err != nil {
		return err
	}
	a.Policy = p

	switch kind {
	case policy.RPKI:
		a.PublishesRPKI = true
	case policy.PathEnd:
		a.PublishesPathEnd = true
	case policy.BGPsecHigh, policy.BGPsecMed, policy.BGPsecLow:
		a.BGPSecEnabled = true
	case policy.ASPA:
		a.ASPAEnabled = true
	}
	return nil
}

// DeployOverTopISPs installs kind on the n ASes with the largest
// customer count (figure2a_line_1/2, figure7a/b/c).
func DeployOverTopISPs(g *asgraph.ASGraph, n int, kind policy.Kind) error {
	for _, id := range g.TopISPs(n) {
		if err := deployOne(g.Get(id), kind); err != nil {
			return err
		}
	}
	return nil
}

// DeployOverTier installs kind on a random fraction of the ASes in
// tier, chosen from rng (figure7d, figure8_line_3, figure10_aspa's
// tier-2/tier-3 legs). fraction is clamped to [0,1].
func DeployOverTier(g *asgraph.ASGraph, tier asgraph.Tier, fraction float64, kind policy.Kind, rng *rand.Rand) error {
	if fraction <= 0 {
		return nil
	}
	if fraction > 1 {
		fraction = 1
	}

	ids := g.Tier(tier)
	n := int(fraction * float64(len(ids)))
	if n == 0 && fraction > 0 && len(ids) > 0 {
		n = 1
	}

	perm := rng.Perm(len(ids))
	for _, idx := range perm[:n] {
		if err := deployOne(g.Get(ids[idx]), kind); err != nil {
			return err
		}
	}
	return nil
}

// DeployFull installs kind on every AS in the graph (figure2a_line_5/_8's
// "full deployment" baselines).
func DeployFull(g *asgraph.ASGraph, kind policy.Kind) error {
	for _, id := range g.AllSorted() {
		if err := deployOne(g.Get(id), kind); err != nil {
			return err
		}
	}
	return nil
}

// DeployProbabilistic deploys kind on the top-n ISPs, each
// independently with probability p (the figure8 "partial,
// probabilistic" recipes).
func DeployProbabilistic(g *asgraph.ASGraph, n int, p float64, kind policy.Kind, rng *rand.Rand) error {
	for _, id := range g.TopISPs(n) {
		if rng.Float64() >= p {
			continue
		}
		if err := deployOne(g.Get(id), kind); err != nil {
			return err
		}
	}
	return nil
}
