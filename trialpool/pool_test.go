package trialpool

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meyerstim/bgpsecsim/asgraph"
	"github.com/meyerstim/bgpsecsim/policy"
)

func fixtureGraph(t *testing.T) *asgraph.ASGraph {
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
	g, err := asgraph.New(edges, policy.NewDefault())
	require.NoError(t, err)
	return g
}

func silentLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestPool_Run_OneResultPerTrialInOrder(t *testing.T) {
	g := fixtureGraph(t)
	p := New(g, 3, silentLogger())

	trials := []Trial{
		{ID: uuid.New(), Victim: 5, Attacker: 10, HopCount: 2},
		{ID: uuid.New(), Victim: 8, Attacker: 11, HopCount: 1},
		{ID: uuid.New(), Victim: 9, Attacker: 6, HopCount: 2},
	}

	results, err := p.Run(context.Background(), trials)
	require.NoError(t, err)
	require.Len(t, results, len(trials))
	for i, r := range results {
		assert.Equal(t, trials[i].ID, r.Trial.ID, "result %d must line up with its submitted trial", i)
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.SuccessRate)
	}
}

func TestPool_Run_RecoverableErrorsAggregateWithoutAbortingBatch(t *testing.T) {
	g := fixtureGraph(t)
	p := New(g, 2, silentLogger())

	trials := []Trial{
		{ID: uuid.New(), Victim: 999, Attacker: 10, HopCount: 2}, // unknown victim
		{ID: uuid.New(), Victim: 5, Attacker: 10, HopCount: 2},   // healthy
	}

	results, err := p.Run(context.Background(), trials)
	require.Len(t, results, 2)
	require.Error(t, err, "a recoverable per-trial error still surfaces in the aggregate")

	assert.Error(t, results[0].Err)
	require.NotNil(t, results[0].SuccessRate, "an UnknownAS trial still reports a zero success rate, per spec")
	assert.Zero(t, results[0].SuccessRate.Sign())
	assert.NoError(t, results[1].Err)
	assert.NotNil(t, results[1].SuccessRate)
}

func TestPool_Run_CancelledContextReturnsWithoutHanging(t *testing.T) {
	g := fixtureGraph(t)
	p := New(g, 1, silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trials := []Trial{
		{ID: uuid.New(), Victim: 5, Attacker: 10, HopCount: 2},
	}
	// Whether or not the single trial raced the cancellation, Run must
	// return exactly one result and never block.
	results, err := p.Run(ctx, trials)
	assert.NoError(t, err)
	require.Len(t, results, 1)
}

func TestNew_ClonesAreIndependent(t *testing.T) {
	g := fixtureGraph(t)
	p := New(g, 2, silentLogger())
	require.Len(t, p.workers, 2)

	p.workers[0].Get(5).InstallRoute(5, p.workers[0].Get(5).BestPath(5))
	assert.NotSame(t, p.workers[0], p.workers[1])
	assert.NotSame(t, p.workers[0].Get(5), p.workers[1].Get(5))
}
