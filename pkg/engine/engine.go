// Package engine implements the Darwin-Kropotkin evolutionary loop:
// competitive selection keeps only the fittest individuals, cooperative
// selection deposits the best individual's traits into a bounded shared
// Commons that the rest of the population probabilistically adopts.
package engine

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/mutualist/evoprompt/pkg/errors"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

// Engine manages the evolutionary process for a population of genomes.
// It is stateless across generations except for the Commons and the
// generation counter. A single Engine must not be driven concurrently.
type Engine struct {
	config  Config
	pool    *genome.FragmentPool
	commons *Commons

	generation int
	rng        *rand.Rand
}

// New creates an engine over the given fragment pool.
func New(pool *genome.FragmentPool, opts ...Option) (*Engine, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, errors.New(errors.InvalidInput, "fragment pool is required")
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		config:  cfg,
		pool:    pool,
		commons: newCommons(cfg.CommonsMaxSize),
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Generation returns the number of completed generation advances.
func (e *Engine) Generation() int {
	return e.generation
}

// Pool returns the fragment catalog the engine breeds against.
func (e *Engine) Pool() *genome.FragmentPool {
	return e.pool
}

// CreateInitialPopulation generates a random starting population.
func (e *Engine) CreateInitialPopulation() []*genome.Genome {
	population := make([]*genome.Genome, e.config.PopulationSize)
	for i := range population {
		population[i] = genome.NewRandom(e.pool, e.rng)
	}
	return population
}

// EvolveGeneration executes one full generation: selection by mode, then
// reproduction back up to the configured population size. Scores must be
// positionally aligned with the population and lie in [0, 10]. All inputs
// are validated before any engine state is touched, so a failed call leaves
// the Commons and generation counter intact.
func (e *Engine) EvolveGeneration(ctx context.Context, population []*genome.Genome, scores []float64, mode genome.Mode) ([]*genome.Genome, error) {
	if err := errors.CheckContext(ctx, "evolve generation"); err != nil {
		return nil, err
	}
	if len(population) == 0 {
		return nil, errors.New(errors.InvalidInput, "population is empty")
	}
	if len(scores) != len(population) {
		return nil, errors.WithFields(
			errors.New(errors.PopulationMismatch, "scores are not aligned with the population"),
			errors.Fields{"population": len(population), "scores": len(scores)})
	}
	for i, s := range scores {
		if s < 0 || s > 10 || math.IsNaN(s) {
			return nil, errors.WithFields(
				errors.New(errors.ScoreOutOfRange, "fitness score outside [0, 10]"),
				errors.Fields{"index": i, "score": s})
		}
	}
	if _, err := genome.ParseMode(mode.String()); err != nil {
		return nil, err
	}

	e.generation++
	ctx = logging.WithGeneration(ctx, e.generation)
	logger := logging.GetLogger()

	var survivors []*genome.Genome
	switch mode {
	case genome.ModeDarwin:
		survivors = e.selectDarwin(population, scores)
		logger.Debug(ctx, "darwin selection kept %d of %d individuals",
			len(survivors), len(population))
	case genome.ModeKropotkin:
		survivors = e.selectKropotkin(population, scores)
		logger.Debug(ctx, "kropotkin selection: commons holds %d entries (%d unique)",
			e.commons.Len(), e.commons.UniqueCount())
	}

	next := e.reproduce(survivors, mode)

	logger.Info(ctx, "generation advanced: mode=%s, survivors=%d, population=%d",
		mode, len(survivors), len(next))

	return next, nil
}

// rankDescending returns population indices ordered by score, highest first.
// The sort is stable, so equal scores preserve original population order.
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// selectDarwin keeps the top fraction of the population by fitness, with a
// hard minimum of one survivor. Survivors come back in ranked order.
func (e *Engine) selectDarwin(population []*genome.Genome, scores []float64) []*genome.Genome {
	order := rankDescending(scores)

	count := int(float64(len(population)) * e.config.SurvivalRate)
	if count < 1 {
		count = 1
	}

	survivors := make([]*genome.Genome, count)
	for i := 0; i < count; i++ {
		survivors[i] = population[order[i]]
	}
	return survivors
}

// selectKropotkin deposits the best individual's fragments into the Commons
// and lets every member of the original population survive, each one adopting
// a random commons fragment into slot 0 with the configured probability.
// Adoption mutates the surviving genome in place.
func (e *Engine) selectKropotkin(population []*genome.Genome, scores []float64) []*genome.Genome {
	order := rankDescending(scores)
	best := population[order[0]]
	e.commons.Append(best.Fragments)

	survivors := make([]*genome.Genome, 0, len(population))
	for _, ind := range population {
		if e.commons.Len() > 0 && e.rng.Float64() < e.config.SharingProbability && len(ind.Fragments) > 0 {
			if adopted, ok := e.commons.Sample(e.rng); ok {
				ind.Fragments[0] = adopted
			}
		}
		survivors = append(survivors, ind)
	}
	return survivors
}

// reproduce fills the next generation back up to the population size by
// crossing over two distinct random survivors per child. Survivors carry over
// unchanged; when they already meet the target size no breeding happens.
// A sole survivor is bred by cloning and mutating it.
func (e *Engine) reproduce(survivors []*genome.Genome, mode genome.Mode) []*genome.Genome {
	next := append([]*genome.Genome(nil), survivors...)

	for len(next) < e.config.PopulationSize {
		var child *genome.Genome
		if len(survivors) == 1 {
			child = survivors[0].Clone()
		} else {
			p1, p2 := e.pickDistinctParents(survivors)
			child = p1.Crossover(p2)
		}

		child.Mutate(e.rng, e.config.MutationRate)
		child.Mode = mode
		next = append(next, child)
	}

	return next
}

// pickDistinctParents draws two distinct survivors uniformly without
// replacement. Each call is an independent draw.
func (e *Engine) pickDistinctParents(survivors []*genome.Genome) (*genome.Genome, *genome.Genome) {
	i := e.rng.Intn(len(survivors))
	j := e.rng.Intn(len(survivors) - 1)
	if j >= i {
		j++
	}
	return survivors[i], survivors[j]
}

// CommonsStats reports the state of the shared knowledge pool.
type CommonsStats struct {
	Size            int `json:"commons_size"`
	UniqueFragments int `json:"unique_fragment_count"`
}

// GetCommonsStats returns statistics about the shared knowledge pool.
func (e *Engine) GetCommonsStats() CommonsStats {
	return CommonsStats{
		Size:            e.commons.Len(),
		UniqueFragments: e.commons.UniqueCount(),
	}
}

// CommonsSnapshot exposes the current commons contents, oldest first, for
// consumers such as dashboards.
func (e *Engine) CommonsSnapshot() []int {
	return e.commons.Snapshot()
}

// PopulationStats summarizes a scored population.
type PopulationStats struct {
	BestFitness     float64 `json:"best_fitness"`
	WorstFitness    float64 `json:"worst_fitness"`
	MeanFitness     float64 `json:"mean_fitness"`
	FitnessVariance float64 `json:"fitness_variance"`
	DiversityIndex  float64 `json:"diversity_index"`
}

// SummarizePopulation computes fitness statistics and a diversity index (the
// share of distinct fitness keys) over a scored population.
func SummarizePopulation(population []*genome.Genome, scores []float64) PopulationStats {
	if len(population) == 0 || len(scores) != len(population) {
		return PopulationStats{}
	}

	best, worst, sum := scores[0], scores[0], 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
		if s < worst {
			worst = s
		}
		sum += s
	}
	mean := sum / float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	keys := make(map[string]struct{}, len(population))
	for _, ind := range population {
		keys[ind.FitnessKey()] = struct{}{}
	}

	return PopulationStats{
		BestFitness:     best,
		WorstFitness:    worst,
		MeanFitness:     mean,
		FitnessVariance: variance,
		DiversityIndex:  float64(len(keys)) / float64(len(population)),
	}
}
