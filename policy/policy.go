// Package policy implements the accept/prefer/forward triad every AS
// runs against candidate routes. Rather than one interface type per
// policy (which the original Python implementation did with class
// inheritance, one override per subclass), each concrete policy here
// is a Policy value built by composing a small set of predicate and
// preference-key functions — a tagged variant, per the re-architecture
// notes, not a virtual-method chain.
package policy

import (
	"fmt"

	"github.com/meyerstim/bgpsecsim/asgraph"
)

// Kind names a concrete policy for logging and deployment bookkeeping.
type Kind string

const (
	Default    Kind = "default"
	RPKI       Kind = "rpki"
	PathEnd    Kind = "path-end"
	BGPsecHigh Kind = "bgpsec-high"
	BGPsecMed  Kind = "bgpsec-med"
	BGPsecLow  Kind = "bgpsec-low"
	ASPA       Kind = "aspa"
)

// preferenceKey maps a route, from the point of view of the AS
// deciding between two routes to the same origin, to an orderable
// integer. Lower is more preferred. A fixed-arity tuple of these,
// compared lexicographically, replaces the original's lazily yielded
// comparator sequence.
type preferenceKey func(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) int

// Policy is the accept/prefer/forward triad for one AS. It satisfies
// asgraph.PolicyFuncs structurally.
type Policy struct {
	kind    Kind
	accept  func(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool
	prefKey []preferenceKey
}

func (p *Policy) Kind() string { return string(p.kind) }

// loopFree is the default accept rule: reject any route that already
// contains self before its final position (the final entry is self,
// the AS deciding on the route), which both suppresses loops and is
// the only thing standing between an honest flood and a cycle ever
// entering a table.
func loopFree(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool {
	path := r.Path()
	for _, id := range path[:len(path)-1] {
		if id == self {
			return false
		}
	}
	return true
}

func localPrefKey(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) int {
	return g.Get(self).RelationTo(r.FirstHop()).LocalPrefRank()
}

func pathLengthKey(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) int {
	return r.Length()
}

func nextHopKey(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) int {
	return int(r.FirstHop())
}

func authenticatedKey(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) int {
	if r.Authenticated() {
		return 0
	}
	return 1
}

var defaultKeys = []preferenceKey{localPrefKey, pathLengthKey, nextHopKey}

// Accept implements the policy's accept rule: the shared loop-free
// check, plus whatever extra predicate the variant adds.
func (p *Policy) Accept(g *asgraph.ASGraph, self asgraph.ASID, route *asgraph.Route) bool {
	if !loopFree(g, self, route) {
		return false
	}
	if p.accept == nil {
		return true
	}
	return p.accept(g, self, route)
}

// Prefer reports whether candidate is strictly better than current,
// per the variant's preference-key tuple compared lexicographically.
// current and candidate must share an origin and have self as their
// final AS; callers that violate this have a bug, not a data problem,
// so Prefer panics rather than returning a bogus answer.
func (p *Policy) Prefer(g *asgraph.ASGraph, self asgraph.ASID, current, candidate *asgraph.Route) bool {
	if current.Origin() != candidate.Origin() {
		panic(fmt.Sprintf("policy: prefer called with mismatched origins %d and %d", current.Origin(), candidate.Origin()))
	}
	if current.Final() != self || candidate.Final() != self {
		panic(fmt.Sprintf("policy: prefer called for AS %d with a route whose final AS differs", self))
	}

	for _, key := range p.prefKey {
		cv, nv := key(g, self, current), key(g, self, candidate)
		if nv < cv {
			return true
		}
		if cv < nv {
			return false
		}
	}
	return false
}

// ForwardTo implements Gao-Rexford export: a route learned from a
// CUSTOMER is re-advertised to everyone; anything else only goes on to
// CUSTOMERs. All six variants share this rule — none of the security
// mechanisms modelled here change who a route is exported to, only
// whether it is accepted and preferred.
func (p *Policy) ForwardTo(g *asgraph.ASGraph, self asgraph.ASID, route *asgraph.Route, rel asgraph.Relation) bool {
	firstHopRel := g.Get(self).RelationTo(route.FirstHop())
	return firstHopRel == asgraph.Customer || rel == asgraph.Customer
}

// NewDefault is the Gao-Rexford baseline: no extra accept predicate,
// preference order (local pref, path length, next-hop AS-ID).
func NewDefault() *Policy {
	return &Policy{kind: Default, prefKey: defaultKeys}
}

// NewRPKI drops routes whose origin lacks a valid ROA.
func NewRPKI() *Policy {
	return &Policy{
		kind:    RPKI,
		accept:  func(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool { return !r.OriginInvalid() },
		prefKey: defaultKeys,
	}
}

// NewPathEnd drops routes whose first hop violates a path-end record.
func NewPathEnd() *Policy {
	return &Policy{
		kind:    PathEnd,
		accept:  func(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool { return !r.PathEndInvalid() },
		prefKey: defaultKeys,
	}
}

func bgpsecAccept(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool {
	// Rejecting any unauthenticated route once every AS on the path is
	// BGPsec-capable was tried in earlier revisions of the original
	// simulator and found "less convenient"; it was never enforced.
	// This follows the implemented behaviour: reject only on
	// origin_invalid, same as RPKI.
	return !r.OriginInvalid()
}

// NewBGPsecHigh prefers authenticated routes above all else.
func NewBGPsecHigh() *Policy {
	return &Policy{
		kind:    BGPsecHigh,
		accept:  bgpsecAccept,
		prefKey: []preferenceKey{authenticatedKey, localPrefKey, pathLengthKey, nextHopKey},
	}
}

// NewBGPsecMed prefers authenticated routes after local preference but
// before path length.
func NewBGPsecMed() *Policy {
	return &Policy{
		kind:    BGPsecMed,
		accept:  bgpsecAccept,
		prefKey: []preferenceKey{localPrefKey, authenticatedKey, pathLengthKey, nextHopKey},
	}
}

// NewBGPsecLow prefers authenticated routes only after local
// preference and path length, just before the next-hop tiebreak.
func NewBGPsecLow() *Policy {
	return &Policy{
		kind:    BGPsecLow,
		accept:  bgpsecAccept,
		prefKey: []preferenceKey{localPrefKey, pathLengthKey, authenticatedKey, nextHopKey},
	}
}

// NewASPA drops routes whose ASPA evaluation is Invalid.
func NewASPA() *Policy {
	return &Policy{
		kind: ASPA,
		accept: func(g *asgraph.ASGraph, self asgraph.ASID, r *asgraph.Route) bool {
			return ValidateASPA(g, r) != Invalid
		},
		prefKey: defaultKeys,
	}
}

// ByKind constructs a fresh policy value of the named kind. It is used
// by deployment recipes that install a named policy over a subset of
// ASes without the caller needing to know each constructor.
func ByKind(k Kind) (*Policy, error) {
	switch k {
	case Default:
		return NewDefault(), nil
	case RPKI:
		return NewRPKI(), nil
	case PathEnd:
		return NewPathEnd(), nil
	case BGPsecHigh:
		return NewBGPsecHigh(), nil
	case BGPsecMed:
		return NewBGPsecMed(), nil
	case BGPsecLow:
		return NewBGPsecLow(), nil
	case ASPA:
		return NewASPA(), nil
	default:
		return nil, fmt.Errorf("policy: unknown kind %q", k)
	}
}
