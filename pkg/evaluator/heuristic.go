package evaluator

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mutualist/evoprompt/pkg/genome"
)

// Heuristic produces plausible simulated scores without any API calls:
// a random base plus bonuses for a balanced temperature and diverse
// fragments. Useful for development and for exercising the engine in tests.
type Heuristic struct {
	mu    sync.Mutex
	rng   *rand.Rand
	evals atomic.Int64
}

// NewHeuristic creates a heuristic evaluator. A zero seed means time-based.
func NewHeuristic(seed int64) *Heuristic {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Heuristic{rng: rand.New(rand.NewSource(seed))}
}

// Evaluate scores a genome in [0, 10]. Safe for concurrent use.
func (h *Heuristic) Evaluate(_ context.Context, g *genome.Genome, _ string) (float64, error) {
	h.evals.Add(1)

	h.mu.Lock()
	score := 5.0 + h.rng.Float64()*3.0
	h.mu.Unlock()

	// Bonus for a balanced exploration/exploitation temperature.
	if g.Temperature > 0.5 && g.Temperature < 0.8 {
		score += 1.0
	}

	// Bonus for diverse fragments.
	distinct := make(map[int]struct{}, len(g.Fragments))
	for _, f := range g.Fragments {
		distinct[f] = struct{}{}
	}
	if len(distinct) >= 2 {
		score += 0.5
	}

	return ClampScore(score), nil
}

// Evaluations returns the number of scoring calls performed.
func (h *Heuristic) Evaluations() int64 {
	return h.evals.Load()
}
