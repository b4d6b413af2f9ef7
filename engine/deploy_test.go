package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/policy"
)

func TestDeployOverTopISPs_SetsPolicyAndCapability(t *testing.T) {
	g := fixtureGraph(t, policy.NewDefault())
	require.NoError(t, DeployOverTopISPs(g, 2, policy.RPKI))

	deployed := 0
	for _, id := range g.AllSorted() {
		a := g.Get(id)
		if a.Policy.Kind() == string(policy.RPKI) {
			deployed++
			assert.True(t, a.PublishesRPKI)
		}
	}
	assert.Equal(t, 2, deployed)
}

func TestDeployOverTier_RespectsFraction(t *testing.T) {
	g := fixtureGraph(t, policy.NewDefault())
	tierTwo := g.Tier(asgraph.TierTwo)
	require.NotEmpty(t, tierTwo)

	rng := rand.New(rand.NewSource(1))
	require.NoError(t, DeployOverTier(g, asgraph.TierTwo, 1.0, policy.PathEnd, rng))

	for _, id := range tierTwo {
		assert.Equal(t, string(policy.PathEnd), g.Get(id).Policy.Kind())
		assert.True(t, g.Get(id).PublishesPathEnd)
	}
}

func TestDeployOverTier_ZeroFractionDeploysNothing(t *testing.T) {
	g := fixtureGraph(t, policy.NewDefault())
	rng := rand.New(rand.NewSource(1))
	require.NoError(t, DeployOverTier(g, asgraph.TierTwo, 0, policy.PathEnd, rng))

	for _, id := range g.AllSorted() {
		assert.Equal(t, string(policy.Default), g.Get(id).Policy.Kind())
	}
}

func TestDeployFull_CoversEveryAS(t *testing.T) {
	g := fixtureGraph(t, policy.NewDefault())
	require.NoError(t, DeployFull(g, policy.BGPsecHigh))

	for _, id := range g.AllSorted() {
		a := g.Get(id)
		assert.Equal(t, string(policy.BGPsecHigh), a.Policy.Kind())
		assert.True(t, a.BGPSecEnabled)
	}
}

func TestDeployProbabilistic_DeterministicGivenSeed(t *testing.T) {
	g1 := fixtureGraph(t, policy.NewDefault())
	g2 := fixtureGraph(t, policy.NewDefault())

	require.NoError(t, DeployProbabilistic(g1, 4, 0.5, policy.ASPA, rand.New(rand.NewSource(7))))
	require.NoError(t, DeployProbabilistic(g2, 4, 0.5, policy.ASPA, rand.New(rand.NewSource(7))))

	for _, id := range g1.AllSorted() {
		assert.Equal(t, g1.Get(id).Policy.Kind(), g2.Get(id).Policy.Kind(), "AS %d", id)
	}
}

func TestDeployOverTopISPs_UnknownKindErrors(t *testing.T) {
	g := fixtureGraph(t, policy.NewDefault())
	err := DeployOverTopISPs(g, 1, policy.Kind("bogus"))
	assert.Error(t, err)
}
