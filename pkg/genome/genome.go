// Package genome implements the unit of evolution: a prompt configuration
// with a discrete fragment encoding, a continuous temperature trait, and the
// operators that act on one or two genomes (mutation, crossover, rendering).
//
// The discrete encoding guarantees mutated fragment indices always address a
// valid pool entry, so no repair step is ever required.
package genome

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultMutationRate is the probability that Mutate changes a genome at all.
const DefaultMutationRate = 0.2

// DefaultFragmentCount is the fragment gene length for randomly constructed
// genomes, capped at the pool size.
const DefaultFragmentCount = 3

// Genome represents a configurable prompt as an evolvable individual.
//
// Genotype: Fragments (indices into the pool), Temperature, Mode.
// Phenotype: Render, the executable prompt for a given task.
type Genome struct {
	// ID identifies the individual across generations for logging and
	// lineage tracking. Crossover assigns children fresh IDs.
	ID string

	// Fragments holds ordered indices into the FragmentPool. The length is
	// fixed at creation; values stay within [0, pool.Len()).
	Fragments []int

	// Temperature is the continuous trait, constrained to [0.0, 1.0].
	Temperature float64

	// Mode records the selection strategy the individual was bred under.
	Mode Mode

	pool *FragmentPool
}

// NewRandom samples a genome for the initial population: distinct fragment
// indices, temperature uniform in [0.3, 0.9], mode uniform.
func NewRandom(pool *FragmentPool, rng *rand.Rand) *Genome {
	k := DefaultFragmentCount
	if pool.Len() < k {
		k = pool.Len()
	}

	fragments := rng.Perm(pool.Len())[:k]

	return &Genome{
		ID:          uuid.New().String(),
		Fragments:   fragments,
		Temperature: 0.3 + rng.Float64()*0.6,
		Mode:        randomMode(rng),
		pool:        pool,
	}
}

// New builds a genome from explicit genes. Genes are adopted as-is; callers
// are responsible for well-formed values.
func New(pool *FragmentPool, fragments []int, temperature float64, mode Mode) *Genome {
	return &Genome{
		ID:          uuid.New().String(),
		Fragments:   append([]int(nil), fragments...),
		Temperature: temperature,
		Mode:        mode,
		pool:        pool,
	}
}

// Render converts the genotype to its phenotype: the executable prompt for
// the given task. Pure and deterministic.
func (g *Genome) Render(task string) string {
	instructions := make([]string, len(g.Fragments))
	for i, idx := range g.Fragments {
		instructions[i] = g.pool.Instruction(idx)
	}

	return fmt.Sprintf("%s. Task: %s. Temperature: %.2f",
		strings.Join(instructions, " "), task, g.Temperature)
}

// Mutate applies one of two mutation channels in place with the given rate.
// With probability 1-rate the genome is left untouched. Otherwise a coin flip
// picks the channel: overwrite one fragment slot with a random pool index, or
// add Gaussian noise to the temperature and clamp to [0, 1].
func (g *Genome) Mutate(rng *rand.Rand, rate float64) {
	if rng.Float64() > rate {
		return
	}

	if rng.Float64() < 0.5 && len(g.Fragments) > 0 {
		idx := rng.Intn(len(g.Fragments))
		g.Fragments[idx] = rng.Intn(g.pool.Len())
		return
	}

	noise := rng.NormFloat64() * 0.1
	g.Temperature = clamp(g.Temperature+noise, 0.0, 1.0)
}

// Crossover performs single-point crossover with a partner: the child takes
// this genome's fragment prefix up to the midpoint and the partner's suffix
// from there on. A partner shorter than the split point simply contributes
// nothing, so mismatched gene lengths are tolerated. Temperature is the
// arithmetic mean of both parents; mode is inherited from the receiver.
// Both parents are left untouched.
func (g *Genome) Crossover(partner *Genome) *Genome {
	mid := len(g.Fragments) / 2

	child := make([]int, 0, len(g.Fragments))
	child = append(child, g.Fragments[:mid]...)
	if mid < len(partner.Fragments) {
		child = append(child, partner.Fragments[mid:]...)
	}

	return &Genome{
		ID:          uuid.New().String(),
		Fragments:   child,
		Temperature: (g.Temperature + partner.Temperature) / 2,
		Mode:        g.Mode,
		pool:        g.pool,
	}
}

// Clone returns an independently owned copy of the genome with a fresh ID.
func (g *Genome) Clone() *Genome {
	return &Genome{
		ID:          uuid.New().String(),
		Fragments:   append([]int(nil), g.Fragments...),
		Temperature: g.Temperature,
		Mode:        g.Mode,
		pool:        g.pool,
	}
}

// FitnessKey derives a hashable signature from the sorted fragment sequence
// and the temperature rounded to two decimals, for external fitness caching.
func (g *Genome) FitnessKey() string {
	sorted := append([]int(nil), g.Fragments...)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, f := range sorted {
		parts[i] = strconv.Itoa(f)
	}

	return fmt.Sprintf("%s_%.2f", strings.Join(parts, "-"), g.Temperature)
}

// Pool returns the fragment catalog this genome renders against.
func (g *Genome) Pool() *FragmentPool {
	return g.pool
}

// String is a human-readable representation for debugging and logging.
func (g *Genome) String() string {
	return fmt.Sprintf("Mode:%s | Temp:%.2f | Frags:%v", g.Mode, g.Temperature, g.Fragments)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
