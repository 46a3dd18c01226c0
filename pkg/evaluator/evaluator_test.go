package evaluator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutualist/evoprompt/pkg/errors"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testPopulation(size int) []*genome.Genome {
	pool := genome.DefaultPool()
	population := make([]*genome.Genome, size)
	for i := range population {
		// Distinct temperatures make positional alignment observable.
		population[i] = genome.New(pool, []int{i % pool.Len()}, float64(i)/10.0, genome.ModeDarwin)
	}
	return population
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-1))
	assert.Equal(t, 10.0, ClampScore(12.5))
	assert.Equal(t, 7.3, ClampScore(7.3))
}

func TestEvaluatePopulationAlignment(t *testing.T) {
	population := testPopulation(8)

	byTemperature := Func(func(_ context.Context, g *genome.Genome, _ string) (float64, error) {
		return g.Temperature * 10, nil
	})

	scores, err := EvaluatePopulation(context.Background(), byTemperature, population, "task", 4)
	require.NoError(t, err)
	require.Len(t, scores, 8)

	for i, score := range scores {
		assert.InDelta(t, float64(i), score, 1e-9, "score %d must align with its genome", i)
	}
}

func TestEvaluatePopulationPropagatesErrors(t *testing.T) {
	population := testPopulation(4)

	failing := Func(func(_ context.Context, g *genome.Genome, _ string) (float64, error) {
		if g.Temperature > 0.25 {
			return 0, fmt.Errorf("judge unavailable")
		}
		return 5, nil
	})

	_, err := EvaluatePopulation(context.Background(), failing, population, "task", 2)
	require.Error(t, err)
	assert.Equal(t, errors.EvaluationFailed, errors.CodeOf(err))
}

func TestEvaluatePopulationDefaultsConcurrency(t *testing.T) {
	population := testPopulation(5)

	var calls atomic.Int64
	counting := Func(func(_ context.Context, _ *genome.Genome, _ string) (float64, error) {
		calls.Add(1)
		return 1, nil
	})

	scores, err := EvaluatePopulation(context.Background(), counting, population, "task", 0)
	require.NoError(t, err)
	assert.Len(t, scores, 5)
	assert.Equal(t, int64(5), calls.Load())
}

func TestEvaluatePopulationThreadsGenomeID(t *testing.T) {
	population := testPopulation(3)

	var mu sync.Mutex
	matched := make(map[string]bool)
	recording := Func(func(ctx context.Context, g *genome.Genome, _ string) (float64, error) {
		id, ok := logging.GetGenomeID(ctx)
		mu.Lock()
		matched[g.ID] = ok && id == g.ID
		mu.Unlock()
		return 5, nil
	})

	_, err := EvaluatePopulation(context.Background(), recording, population, "task", 2)
	require.NoError(t, err)
	require.Len(t, matched, 3)
	for id, ok := range matched {
		assert.True(t, ok, "genome %s must see its own ID in the scoring context", id)
	}
}

func TestEvaluatePopulationRequiresEvaluator(t *testing.T) {
	_, err := EvaluatePopulation(context.Background(), nil, testPopulation(2), "task", 1)
	require.Error(t, err)
}

func TestEvaluatePopulationEmptyPopulation(t *testing.T) {
	scores, err := EvaluatePopulation(context.Background(), NewHeuristic(1), nil, "task", 1)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestHeuristicScoreRange(t *testing.T) {
	h := NewHeuristic(7)
	pool := genome.DefaultPool()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		g := genome.NewRandom(pool, newRand(int64(i)))
		score, err := h.Evaluate(ctx, g, "task")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
	}

	assert.Equal(t, int64(200), h.Evaluations())
}

func TestHeuristicRewardsBalancedGenes(t *testing.T) {
	pool := genome.DefaultPool()
	ctx := context.Background()

	// Balanced temperature and diverse fragments earn both bonuses, so the
	// floor rises above the unbonused base range minimum.
	balanced := genome.New(pool, []int{1, 2, 3}, 0.65, genome.ModeDarwin)
	h := NewHeuristic(3)
	score, err := h.Evaluate(ctx, balanced, "task")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 6.5)

	// Degenerate genes never receive bonuses: scores stay within the base band.
	flat := genome.New(pool, []int{4, 4, 4}, 0.1, genome.ModeDarwin)
	for i := 0; i < 100; i++ {
		score, err = h.Evaluate(ctx, flat, "task")
		require.NoError(t, err)
		assert.Less(t, score, 8.0+1e-9)
	}
}
