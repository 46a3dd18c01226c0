// Package evaluator scores genome phenotypes. The engine only ever consumes a
// score slice positionally aligned with a population; the heuristic scorer,
// the LLM judge, caching and concurrency all stay on this side of that
// boundary.
package evaluator

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/mutualist/evoprompt/pkg/errors"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

// Score bounds for every evaluator.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// DefaultConcurrency bounds parallel population scoring.
const DefaultConcurrency = 3

// Evaluator measures how well a genome's rendered prompt fits a task.
// Scores lie in [0, 10].
type Evaluator interface {
	Evaluate(ctx context.Context, g *genome.Genome, task string) (float64, error)
}

// Func adapts a plain function to the Evaluator interface.
type Func func(ctx context.Context, g *genome.Genome, task string) (float64, error)

func (f Func) Evaluate(ctx context.Context, g *genome.Genome, task string) (float64, error) {
	return f(ctx, g, task)
}

// ClampScore forces a score into [MinScore, MaxScore].
func ClampScore(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// EvaluatePopulation scores every individual with bounded concurrency and
// returns a slice positionally aligned with the population. The population
// itself is never mutated during scoring. A non-positive concurrency falls
// back to DefaultConcurrency.
func EvaluatePopulation(ctx context.Context, ev Evaluator, population []*genome.Genome, task string, concurrency int) ([]float64, error) {
	if ev == nil {
		return nil, errors.New(errors.InvalidInput, "evaluator is required")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	scores := make([]float64, len(population))

	p := pool.New().WithErrors().WithMaxGoroutines(concurrency)
	for i, ind := range population {
		i, ind := i, ind
		p.Go(func() error {
			score, err := ev.Evaluate(logging.WithGenomeID(ctx, ind.ID), ind, task)
			if err != nil {
				return errors.WithFields(
					errors.Wrap(err, errors.EvaluationFailed, "failed to score individual"),
					errors.Fields{"index": i, "genome": ind.ID})
			}
			scores[i] = score
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
