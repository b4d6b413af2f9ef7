package asgraph

// fixtureEdges builds the 11-AS, 13-edge topology used across the test
// scenarios: 1 is the sole tier-1, providing to 2, 3, 4; 2 provides to
// 5, 6, 7; 3 provides to 8, 9; 4 provides to 10, 11; peering links sit
// at 2-3, 6-7, 10-11.
func fixtureEdges() []Edge {
	return []Edge{
		{A: 1, B: 2, Relation: AProviderOfB},
		{A: 1, B: 3, Relation: AProviderOfB},
		{A: 1, B: 4, Relation: AProviderOfB},
		{A: 2, B: 5, Relation: AProviderOfB},
		{A: 2, B: 6, Relation: AProviderOfB},
		{A: 2, B: 7, Relation: AProviderOfB},
		{A: 3, B: 8, Relation: AProviderOfB},
		{A: 3, B: 9, Relation: AProviderOfB},
		{A: 4, B: 10, Relation: AProviderOfB},
		{A: 4, B: 11, Relation: AProviderOfB},
		{A: 2, B: 3, Relation: EdgePeer},
		{A: 6, B: 7, Relation: EdgePeer},
		{A: 10, B: 11, Relation: EdgePeer},
	}
}

func newFixture() *ASGraph {
	g, err := New(fixtureEdges(), &stubPolicy{})
	if err != nil {
		panic(err)
	}
	return g
}

// stubPolicy is the minimal PolicyFuncs satisfying the interface for
// graph-only tests that never run propagation.
type stubPolicy struct{}

func (stubPolicy) Accept(*ASGraph, ASID, *Route) bool              { return true }
func (stubPolicy) Prefer(*ASGraph, ASID, *Route, *Route) bool      { return false }
func (stubPolicy) ForwardTo(*ASGraph, ASID, *Route, Relation) bool { return false }
func (stubPolicy) Kind() string                                    { return "stub" }
