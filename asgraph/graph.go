package asgraph

import (
	"fmt"
	"sort"
	"strconv"

	basicgraph "github.com/Emeline-1/basic_graph"
)

// Tier partitions ASes by whether they have customers and/or providers.
type Tier int

const (
	TierOne Tier = iota
	TierTwo
	TierThree
)

// ASGraph owns the AS arena and the adjacency map of relationships
// between them. It is built once from a pre-parsed edge list; nothing
// in this package reads a relationship file (see package caida for
// that boundary).
type ASGraph struct {
	ases      map[ASID]*AS
	relations map[ASID]map[ASID]Relation
}

// New builds an ASGraph from a list of relationship edges. Every AS
// referenced by an edge gets an arena entry; defaultPolicy is
// installed on all of them. Conflicting relationship claims for the
// same ordered pair are a fatal construction error, matching the
// engine's rule that invalid relationships are fatal rather than a
// per-trial concern.
func New(edges []Edge, defaultPolicy PolicyFuncs) (*ASGraph, error) {
	g := &ASGraph{
		ases:      make(map[ASID]*AS),
		relations: make(map[ASID]map[ASID]Relation),
	}

	ensure := func(id ASID) {
		if _, ok := g.ases[id]; ok {
			return
		}
		g.ases[id] = &AS{
			ID:        id,
			graph:     g,
			Policy:    defaultPolicy,
			Providers: make(map[ASID]struct{}),
		}
		g.relations[id] = make(map[ASID]Relation)
	}

	set := func(from, to ASID, rel Relation) error {
		if existing, ok := g.relations[from][to]; ok && existing != rel {
			return fmt.Errorf("%w: AS %d already related to AS %d as %s, cannot also be %s",
				errInvariant, from, to, existing, rel)
		}
		g.relations[from][to] = rel
		return nil
	}

	for _, e := range edges {
		ensure(e.A)
		ensure(e.B)

		var err error
		switch e.Relation {
		case EdgePeer:
			err = set(e.A, e.B, Peer)
			if err == nil {
				err = set(e.B, e.A, Peer)
			}
		case AProviderOfB:
			err = set(e.A, e.B, Customer)
			if err == nil {
				err = set(e.B, e.A, Provider)
			}
		case BProviderOfA:
			err = set(e.B, e.A, Customer)
			if err == nil {
				err = set(e.A, e.B, Provider)
			}
		default:
			err = fmt.Errorf("%w: unknown edge kind %d between AS %d and AS %d", errInvariant, e.Relation, e.A, e.B)
		}
		if err != nil {
			return nil, err
		}
	}

	// An AS's ASPA record defaults to its real provider set, per
	// tests/test_as_graph.py::test_aspa_object_creation in the original
	// source: create_new_aspa seeds the record from get_providers().
	for id, a := range g.ases {
		for neighbor, rel := range g.relations[id] {
			if rel == Provider {
				a.Providers[neighbor] = struct{}{}
			}
		}
		a.clearTable()
	}

	return g, nil
}

// errInvariant is a local alias to avoid importing bgpsecerr here,
// which would create a dependency from the graph package onto the
// error-taxonomy package used mainly by the engine and CLI layers.
// Both name the same failure mode; asgraph just needs a sentinel of
// its own to wrap.
var errInvariant = fmt.Errorf("invariant violation")

// Get returns the AS with the given ID, or nil if it is not in the graph.
func (g *ASGraph) Get(id ASID) *AS { return g.ases[id] }

// Len returns the number of ASes in the graph.
func (g *ASGraph) Len() int { return len(g.ases) }

// All calls f for every AS in the graph. Iteration order is not
// specified; callers needing determinism should sort IDs themselves
// (AllSorted does this).
func (g *ASGraph) All(f func(*AS)) {
	for _, a := range g.ases {
		f(a)
	}
}

// AllSorted returns every AS-ID in ascending order.
func (g *ASGraph) AllSorted() []ASID {
	ids := make([]ASID, 0, len(g.ases))
	for id := range g.ases {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear resets every AS's best-path table to just its self-route,
// between trials.
func (g *ASGraph) Clear() {
	for _, a := range g.ases {
		a.clearTable()
	}
}

// CustomerCount returns the number of customers a has.
func (g *ASGraph) CustomerCount(id ASID) int {
	n := 0
	for _, rel := range g.relations[id] {
		if rel == Customer {
			n++
		}
	}
	return n
}

// TopISPs returns the n ASes with the largest customer count,
// descending, breaking ties by ascending AS-ID for determinism.
func (g *ASGraph) TopISPs(n int) []ASID {
	ids := g.AllSorted()
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := g.CustomerCount(ids[i]), g.CustomerCount(ids[j])
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}

// TierOf classifies an AS by whether it has providers and/or customers.
func (g *ASGraph) TierOf(id ASID) Tier {
	hasProvider, hasCustomer := false, false
	for _, rel := range g.relations[id] {
		switch rel {
		case Provider:
			hasProvider = true
		case Customer:
			hasCustomer = true
		}
	}
	switch {
	case !hasProvider:
		return TierOne
	case !hasCustomer:
		return TierThree
	default:
		return TierTwo
	}
}

// Tier returns every AS in the given tier, ascending by ID.
func (g *ASGraph) Tier(t Tier) []ASID {
	var ids []ASID
	for _, id := range g.AllSorted() {
		if g.TierOf(id) == t {
			ids = append(ids, id)
		}
	}
	return ids
}

// AnyCustomerProviderCycle builds the directed graph whose edges are
// (A -> B) iff B is A's customer, and reports whether it contains a
// cycle. A cycle here is a modelling error in the relationship data:
// a provider can never be its own, possibly indirect, customer.
func (g *ASGraph) AnyCustomerProviderCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[ASID]int, len(g.ases))

	var visit func(id ASID) bool
	visit = func(id ASID) bool {
		color[id] = gray
		for neighbor, rel := range g.relations[id] {
			if rel != Customer {
				continue
			}
			switch color[neighbor] {
			case gray:
				return true
			case white:
				if visit(neighbor) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.AllSorted() {
		if color[id] == white {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// IsConnected reports whether the undirected relationship graph (edge
// type ignored) forms a single connected component. It is implemented
// on top of github.com/Emeline-1/basic_graph's connected-component
// walk rather than a hand-rolled BFS, the way the teacher repo itself
// reaches for basic_graph whenever it needs connected components
// (see overlays_processing.go's process_overlays).
func (g *ASGraph) IsConnected() bool {
	if len(g.ases) == 0 {
		return true
	}

	bg := basicgraph.New()
	seenEdge := make(map[[2]ASID]bool)
	for from, row := range g.relations {
		for to := range row {
			a, b := from, to
			if a > b {
				a, b = b, a
			}
			key := [2]ASID{a, b}
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			bg.Add_edge(strconv.FormatUint(uint64(a), 10), strconv.FormatUint(uint64(b), 10))
		}
	}

	visited := make(map[string]bool)
	components := 0
	bg.Set_iterator()
	for bg.Next_connected_component() {
		components++
		for _, node := range bg.Connected_component() {
			visited[node] = true
		}
	}

	if components > 1 {
		return false
	}
	// An AS with no edges at all never reaches basic_graph's adjacency
	// map, so a lone AS in an otherwise single-node graph still counts
	// against connectivity once there is more than one AS.
	return len(visited) == len(g.ases) || len(g.ases) == 1
}

// CloneForTrial returns a structural deep copy of the graph: same
// ASes, same relationships, same policies and ASPA records, with
// every best-path table reset to its self-route. Each trial-pool
// worker gets one of these so trials never share mutable state.
func (g *ASGraph) CloneForTrial() *ASGraph {
	clone := &ASGraph{
		ases:      make(map[ASID]*AS, len(g.ases)),
		relations: make(map[ASID]map[ASID]Relation, len(g.relations)),
	}
	for id, row := range g.relations {
		newRow := make(map[ASID]Relation, len(row))
		for k, v := range row {
			newRow[k] = v
		}
		clone.relations[id] = newRow
	}
	for id, a := range g.ases {
		providers := make(map[ASID]struct{}, len(a.Providers))
		for p := range a.Providers {
			providers[p] = struct{}{}
		}
		clone.ases[id] = &AS{
			ID:               id,
			graph:            clone,
			Policy:           a.Policy,
			PublishesRPKI:    a.PublishesRPKI,
			PublishesPathEnd: a.PublishesPathEnd,
			BGPSecEnabled:    a.BGPSecEnabled,
			ASPAEnabled:      a.ASPAEnabled,
			Providers:        providers,
		}
	}
	clone.Clear()
	return clone
}
