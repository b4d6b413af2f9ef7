package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meyerstim/bgpsecsim/asgraph"
)

func fixtureGraph(t *testing.T, p *Policy) *asgraph.ASGraph {
	t.Helper()
	edges := []asgraph.Edge{
		{A: 1, B: 2, Relation: asgraph.AProviderOfB},
		{A: 1, B: 3, Relation: asgraph.AProviderOfB},
		{A: 1, B: 4, Relation: asgraph.AProviderOfB},
		{A: 2, B: 5, Relation: asgraph.AProviderOfB},
		{A: 2, B: 6, Relation: asgraph.AProviderOfB},
		{A: 2, B: 7, Relation: asgraph.AProviderOfB},
		{A: 3, B: 8, Relation: asgraph.AProviderOfB},
		{A: 3, B: 9, Relation: asgraph.AProviderOfB},
		{A: 4, B: 10, Relation: asgraph.AProviderOfB},
		{A: 4, B: 11, Relation: asgraph.AProviderOfB},
		{A: 2, B: 3, Relation: asgraph.EdgePeer},
		{A: 6, B: 7, Relation: asgraph.EdgePeer},
		{A: 10, B: 11, Relation: asgraph.EdgePeer},
	}
	g, err := asgraph.New(edges, p)
	require.NoError(t, err)
	return g
}

// route synthesizes the route an AS at path[len-1] would hold for
// origin path[0], by originating from path[0] and forwarding hop by
// hop. It does not run it through any policy's Accept/Prefer.
func route(t *testing.T, g *asgraph.ASGraph, path []asgraph.ASID) *asgraph.Route {
	t.Helper()
	r := g.Get(path[0]).Originate(path[1])
	for _, hop := range path[2:] {
		r = r.Forward(g, hop)
	}
	return r
}

func TestAccept_LoopFree(t *testing.T) {
	p := NewDefault()
	g := fixtureGraph(t, p)

	r := route(t, g, []asgraph.ASID{8, 3, 1, 2})
	assert.False(t, p.Accept(g, 3, r), "route revisiting 3 must be rejected")
}

func TestPrefer_ShorterPathWinsSameRelationClass(t *testing.T) {
	p := NewDefault()
	g := fixtureGraph(t, p)

	short := route(t, g, []asgraph.ASID{8, 3, 1})
	long := route(t, g, []asgraph.ASID{9, 3, 1})
	assert.Panics(t, func() { p.Prefer(g, 1, short, long) }, "these two routes do not even share an origin")

	shortToFour := route(t, g, []asgraph.ASID{8, 3, 1, 4})
	longToFour := route(t, g, []asgraph.ASID{8, 3, 2, 1, 4})
	assert.True(t, p.Prefer(g, 4, longToFour, shortToFour), "shorter path with the same first-hop relation class wins")
}

func TestForwardTo_GaoRexfordExport(t *testing.T) {
	p := NewDefault()
	g := fixtureGraph(t, p)

	fromCustomer := route(t, g, []asgraph.ASID{8, 3})
	assert.True(t, p.ForwardTo(g, 3, fromCustomer, asgraph.Peer), "route from a customer exports to peers")
	assert.True(t, p.ForwardTo(g, 3, fromCustomer, asgraph.Provider), "route from a customer exports to providers")

	fromProvider := route(t, g, []asgraph.ASID{1, 3})
	assert.False(t, p.ForwardTo(g, 3, fromProvider, asgraph.Peer), "route from a provider never exports to peers")
	assert.True(t, p.ForwardTo(g, 3, fromProvider, asgraph.Customer), "route from a provider still exports to customers")
}

// A hijack_n_hops forgery never spoofs the origin (it appends the
// attacker past a real route to the victim's own prefix), so RPKI's
// origin check has nothing to catch here: this is the documented
// limitation of origin validation against same-origin path hijacks.
func TestNewRPKI_AcceptsSameOriginHijack(t *testing.T) {
	p := NewRPKI()
	g := fixtureGraph(t, p)

	forged := asgraph.ForgeHijack(route(t, g, []asgraph.ASID{5, 2}), 10, 2)
	assert.True(t, p.Accept(g, 7, forged))
}

func TestNewPathEnd_RejectsForgedFirstHop(t *testing.T) {
	p := NewPathEnd()
	g := fixtureGraph(t, p)

	base := route(t, g, []asgraph.ASID{5, 2})
	forged := asgraph.ForgeHijack(base, 10, 1)
	assert.False(t, p.Accept(g, 7, forged))
}

func TestNewBGPsecHigh_PrefersAuthenticatedOverShorter(t *testing.T) {
	p := NewBGPsecHigh()
	g := fixtureGraph(t, p)
	for _, id := range []asgraph.ASID{8, 3, 2, 1, 4} {
		g.Get(id).BGPSecEnabled = true
	}

	authenticated := route(t, g, []asgraph.ASID{8, 3, 2, 1, 4})
	// AS9 is not BGPsec-enabled, so forwarding to it breaks the chain.
	unauthenticated := route(t, g, []asgraph.ASID{8, 3, 9, 4})

	require.True(t, authenticated.Authenticated())
	require.False(t, unauthenticated.Authenticated())
	assert.True(t, p.Prefer(g, 4, unauthenticated, authenticated), "the authenticated route wins even though it is longer")
}

func TestByKind_UnknownKindErrors(t *testing.T) {
	_, err := ByKind(Kind("made-up"))
	require.Error(t, err)
}
