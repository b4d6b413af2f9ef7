package engine

import (
	"fmt"
	"math/big"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/bgpsecerr"
)

// SuccessRate scans every AS's best path to victim and reports the
// exact fraction of present routes that traverse attacker. math/big's
// Rat is the standard library's answer to "I need an exact rational,
// not a float" — no third-party fraction type appears anywhere in the
// retrieved pack, and the original's use of Python's fractions.Fraction
// is exactly this and nothing more.
func SuccessRate(g *asgraph.ASGraph, attacker, victim asgraph.ASID) (*big.Rat, error) {
	if g.Get(victim) == nil {
		return nil, fmt.Errorf("%w: victim AS %d", bgpsecerr.ErrUnknownAS, victim)
	}
	if g.Get(attacker) == nil {
		return nil, fmt.Errorf("%w: attacker AS %d", bgpsecerr.ErrUnknownAS, attacker)
	}

	var present, bad int64
	for _, id := range g.AllSorted() {
		route := g.Get(id).BestPath(victim)
		if route == nil {
			continue
		}
		present++
		if route.Contains(attacker) {
			bad++
		}
	}
	if present == 0 {
		return big.NewRat(0, 1), nil
	}
	return big.NewRat(bad, present), nil
}
