package asgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SymmetricRelations(t *testing.T) {
	g := newFixture()
	assert.Equal(t, Provider, g.Get(2).RelationTo(1))
	assert.Equal(t, Customer, g.Get(1).RelationTo(2))
	assert.Equal(t, Peer, g.Get(2).RelationTo(3))
	assert.Equal(t, Peer, g.Get(3).RelationTo(2))
}

func TestNew_ConflictingRelationIsFatal(t *testing.T) {
	edges := []Edge{
		{A: 1, B: 2, Relation: AProviderOfB},
		{A: 2, B: 1, Relation: AProviderOfB},
	}
	_, err := New(edges, &stubPolicy{})
	require.Error(t, err)
}

func TestSelfRoute(t *testing.T) {
	g := newFixture()
	for _, id := range g.AllSorted() {
		r := g.Get(id).BestPath(id)
		require.NotNil(t, r)
		assert.Equal(t, []ASID{id}, r.Path())
		assert.True(t, r.Authenticated())
	}
}

func TestAnyCustomerProviderCycle(t *testing.T) {
	g := newFixture()
	assert.False(t, g.AnyCustomerProviderCycle())

	cyclic, err := New(append(fixtureEdges(), Edge{A: 6, B: 1, Relation: AProviderOfB}), &stubPolicy{})
	require.NoError(t, err)
	assert.True(t, cyclic.AnyCustomerProviderCycle())
}

func TestIsConnected(t *testing.T) {
	g := newFixture()
	assert.True(t, g.IsConnected())

	disconnected, err := New([]Edge{
		{A: 1, B: 2, Relation: AProviderOfB},
		{A: 3, B: 4, Relation: AProviderOfB},
	}, &stubPolicy{})
	require.NoError(t, err)
	assert.False(t, disconnected.IsConnected())
}

func TestTopISPs_TiesBrokenByAscendingID(t *testing.T) {
	g := newFixture()
	top := g.TopISPs(3)
	require.Len(t, top, 3)
	assert.Equal(t, ASID(1), top[0])
	assert.Equal(t, ASID(2), top[1])
	assert.Equal(t, ASID(3), top[2])
}

func TestTierOf(t *testing.T) {
	g := newFixture()
	assert.Equal(t, TierOne, g.TierOf(1))
	assert.Equal(t, TierTwo, g.TierOf(2))
	assert.Equal(t, TierThree, g.TierOf(5))
}

func TestASPAProvidersDefaultToRealProviders(t *testing.T) {
	g := newFixture()
	_, ok := g.Get(2).ProvidersSet()[1]
	assert.True(t, ok, "AS2 should default-publish AS1 as an authorised provider")
}

func TestCloneForTrial_Independence(t *testing.T) {
	g := newFixture()
	clone := g.CloneForTrial()

	clone.Get(5).InstallRoute(9, newRoute([]ASID{9, 3, 2, 5}, false, false, false))
	assert.NotNil(t, clone.Get(5).BestPath(9))
	assert.Nil(t, g.Get(5).BestPath(9), "mutating the clone must not affect the original")
}
