package policy

import "github.com/meyerstim/bgpsecsim/asgraph"

// Evaluation is the verdict ASPA validation reaches for a route. It is
// a pure function of the route and the graph's published ASPA
// records — never a field stored on the route and never a
// process-global, unlike the original simulator's module-level list.
// That made per-route state leak across trials and race across
// parallel workers; here the walk's "have we gone downstream yet" flag
// is a local variable scoped to a single call.
type Evaluation int

const (
	Valid Evaluation = iota
	Invalid
	UnknownEval
)

// ValidateASPA walks path[1:len-1], examining the pair (curr, next) at
// each interior position (prev = path[i-1] plays no role in any of the
// rules below, despite the walk conceptually stepping hop by hop
// through the full triple). curr publishes its authorised providers in
// g.Get(curr).Providers; the walk tracks
// whether it has already taken a "downstream" leg (a peer crossing or
// a provider-published relationship used in the other direction), a
// state that is never un-set once entered and never shared across
// calls.
func ValidateASPA(g *asgraph.ASGraph, r *asgraph.Route) Evaluation {
	path := r.Path()
	if len(path) < 3 {
		// No interior hop exists to invalidate.
		return Valid
	}

	downstream := false
	sawInvalid := false
	sawUnknown := false
	sawValid := false

	for i := 1; i < len(path)-1; i++ {
		curr, next := path[i], path[i+1]

		currAS := g.Get(curr)
		if currAS == nil || !currAS.ASPAEnabled {
			sawUnknown = true
			continue
		}

		switch {
		case !downstream && isAuthorisedProvider(currAS, next):
			sawValid = true
		case currAS.RelationTo(next) == asgraph.Peer:
			sawValid = true
			downstream = true
		case isAuthorisedProvider(g.Get(next), curr):
			sawValid = true
			downstream = true
		default:
			sawInvalid = true
		}
	}

	switch {
	case sawInvalid:
		return Invalid
	case sawUnknown && !sawValid:
		return UnknownEval
	default:
		return Valid
	}
}

func isAuthorisedProvider(as *asgraph.AS, candidate asgraph.ASID) bool {
	if as == nil {
		return false
	}
	_, ok := as.Providers[candidate]
	return ok
}
