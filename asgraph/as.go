package asgraph

// PolicyFuncs is the triad every routing policy must implement. It is
// defined here, rather than in package policy, because AS needs to
// reference it for its Policy field and we want to avoid an import
// cycle between asgraph and policy (policy needs *AS and *ASGraph to
// do its job). Concrete policies live in package policy and satisfy
// this interface structurally.
type PolicyFuncs interface {
	// Accept decides whether route may enter self's best-path table at all.
	Accept(g *ASGraph, self ASID, route *Route) bool
	// Prefer reports whether candidate is strictly better than current.
	// Both routes must share an origin and have self as their final AS.
	Prefer(g *ASGraph, self ASID, current, candidate *Route) bool
	// ForwardTo reports whether an accepted route should be re-advertised
	// to a neighbor related to self by rel.
	ForwardTo(g *ASGraph, self ASID, route *Route, rel Relation) bool
	// Kind names the policy for logging and deployment bookkeeping.
	Kind() string
}

// AS is one Autonomous System. Its neighbor relationships live in the
// owning ASGraph's adjacency map, not here — see the package doc for
// why: an arena of ASes keyed by ID avoids the cyclic pointer mess of
// each AS holding live references to its neighbors.
type AS struct {
	ID ASID

	graph *ASGraph

	Policy PolicyFuncs

	PublishesRPKI    bool
	PublishesPathEnd bool
	BGPSecEnabled    bool
	ASPAEnabled      bool

	// Providers is the set of AS-IDs this AS publishes as authorised
	// providers in its ASPA record. It defaults to the AS's real
	// PROVIDER neighbors at construction time (see graph.go), matching
	// the original simulator's create_new_aspa behaviour; an attack
	// scenario may overwrite it with a bogus set.
	Providers map[ASID]struct{}

	bestPath map[ASID]*Route
}

// RelationTo returns the relationship self has with other, or
// Unrelated if they are not neighbors.
func (a *AS) RelationTo(other ASID) Relation {
	return a.graph.relations[a.ID][other]
}

// Neighbors returns self's neighbor AS-IDs in no particular order.
func (a *AS) Neighbors() []ASID {
	row := a.graph.relations[a.ID]
	ids := make([]ASID, 0, len(row))
	for id := range row {
		ids = append(ids, id)
	}
	return ids
}

// BestPath returns the currently installed best route to origin, or
// nil if this AS has no route to it.
func (a *AS) BestPath(origin ASID) *Route {
	return a.bestPath[origin]
}

// InstallRoute overwrites self's best-path slot for origin. It is the
// one mutation point for a best-path table; the propagation engine
// calls it only after a route has already passed accept and prefer.
// Outside tests, only the engine package calls it, and only for
// origins other than self.ID, so the self-route installed at
// construction is never replaced through it.
func (a *AS) InstallRoute(origin ASID, r *Route) {
	a.bestPath[origin] = r
}

// Originate creates the route self announces directly to neighbor: a
// two-hop path with both invalidity flags clear and authenticated set
// from self's own BGPsec capability.
func (a *AS) Originate(neighbor ASID) *Route {
	return newRoute([]ASID{a.ID, neighbor}, false, false, a.BGPSecEnabled)
}

// clearTable resets this AS's best-path table to just its self-route,
// which is installed once at construction and is never otherwise
// overwritten or cleared.
func (a *AS) clearTable() {
	a.bestPath = map[ASID]*Route{a.ID: selfRoute(a.ID)}
}

// ProvidersSet returns the AS-IDs self's ASPA record authorises as
// providers. Exposed mainly for tests and ASPA validation.
func (a *AS) ProvidersSet() map[ASID]struct{} { return a.Providers }
