package asgraph

// Route is an immutable AS-PATH plus the three security flags. Every
// constructor returns a fresh value; nothing ever mutates a Route in
// place, which is what lets the same *Route be installed in many
// best-path tables and forwarded further without copying the path.
type Route struct {
	path            []ASID
	originInvalid   bool
	pathEndInvalid  bool
	authenticated   bool
}

// newRoute copies path so the caller's backing array can't alias a
// route already sitting in a best-path table.
func newRoute(path []ASID, originInvalid, pathEndInvalid, authenticated bool) *Route {
	owned := make([]ASID, len(path))
	copy(owned, path)
	return &Route{
		path:           owned,
		originInvalid:  originInvalid,
		pathEndInvalid: pathEndInvalid,
		authenticated:  authenticated,
	}
}

// selfRoute is the trivial single-hop route an AS installs for itself
// at construction. It is authenticated by definition and never
// overwritten.
func selfRoute(id ASID) *Route {
	return newRoute([]ASID{id}, false, false, true)
}

// Path returns the AS-PATH, origin first. Callers must not mutate the
// returned slice.
func (r *Route) Path() []ASID { return r.path }

// Length is the number of hops in the path, including the origin.
func (r *Route) Length() int { return len(r.path) }

// Origin is the first AS in the path, the one that announced the prefix.
func (r *Route) Origin() ASID { return r.path[0] }

// Final is the current holder of the route, the last entry in the path.
func (r *Route) Final() ASID { return r.path[len(r.path)-1] }

// FirstHop is the AS the final holder learned this route from. It is
// only defined for paths of length 2 or more.
func (r *Route) FirstHop() ASID { return r.path[len(r.path)-2] }

func (r *Route) OriginInvalid() bool  { return r.originInvalid }
func (r *Route) PathEndInvalid() bool { return r.pathEndInvalid }
func (r *Route) Authenticated() bool  { return r.authenticated }

// HasCycle reports whether any AS appears more than once in the path.
func (r *Route) HasCycle() bool {
	seen := make(map[ASID]struct{}, len(r.path))
	for _, id := range r.path {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// Contains reports whether id appears anywhere in the path.
func (r *Route) Contains(id ASID) bool {
	for _, p := range r.path {
		if p == id {
			return true
		}
	}
	return false
}

// ForgeHijack builds the attacker's forged announcement: base's path
// with attacker appended, origin_invalid cleared (the attacker is
// claiming the victim's own prefix, so nothing about the origin itself
// looks wrong), path_end_invalid set only when n is 1 (the attacker
// would then be posing as the victim's own first hop, which the
// path-end record would contradict), and authenticated always false.
func ForgeHijack(base *Route, attacker ASID, n int) *Route {
	path := make([]ASID, len(base.path)+1)
	copy(path, base.path)
	path[len(base.path)] = attacker
	return newRoute(path, false, n == 1, false)
}

// Forward extends r by one hop to nextHop, preserving origin_invalid
// and path_end_invalid and ANDing authenticated with the next hop's
// own BGPsec capability. This is the route an AS hands to a neighbor
// it has decided to forward to; it is not itself installed anywhere
// until the neighbor runs it through accept/prefer.
func (r *Route) Forward(g *ASGraph, nextHop ASID) *Route {
	path := make([]ASID, len(r.path)+1)
	copy(path, r.path)
	path[len(r.path)] = nextHop

	authenticated := r.authenticated
	if next := g.Get(nextHop); next == nil || !next.BGPSecEnabled {
		authenticated = false
	}
	return newRoute(path, r.originInvalid, r.pathEndInvalid, authenticated)
}
