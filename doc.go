// Package evoprompt is an evolutionary engine for prompt configurations. It
// breeds populations of prompt genomes, where each genome selects instruction
// fragments from a shared pool and carries a sampling temperature, and evolves
// them against a task under one of two selection regimes.
//
// The two regimes model competing theories of evolution:
//   - Darwin: competitive selection. Genomes are ranked by fitness and only a
//     configured fraction survives to reproduce.
//   - Kropotkin: mutual aid. Every genome survives; the fittest genome deposits
//     its fragments into a bounded knowledge commons, and other genomes
//     probabilistically adopt fragments from it.
//
// Key Components:
//
//   - genome: PromptGenome representation with mutation (discrete fragment
//     swaps and Gaussian temperature drift), midpoint crossover, phenotype
//     rendering and a canonical fitness-cache key, plus the fragment pool with
//     its built-in instruction catalog and YAML loading.
//
//   - engine: the generation loop. Validates populations and scores, applies
//     the selected regime, manages the knowledge commons, and refills the
//     population through crossover and mutation. Also computes per-generation
//     population statistics (best, mean, variance, diversity).
//
//   - evaluator: fitness scoring on a 0..10 scale. A seeded heuristic scorer
//     for offline runs, an LLM judge backed by Anthropic models, a caching
//     decorator, and bounded-concurrency population evaluation.
//
//   - cache: fitness score caching behind a small interface, with an in-memory
//     LRU backend and a persistent SQLite backend.
//
// Simple Example:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/mutualist/evoprompt/pkg/engine"
//	    "github.com/mutualist/evoprompt/pkg/evaluator"
//	    "github.com/mutualist/evoprompt/pkg/genome"
//	)
//
//	func main() {
//	    eng, err := engine.New(genome.DefaultPool(), engine.WithSeed(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ev := evaluator.NewHeuristic(42)
//	    task := "Explain the concept of recursion in Python"
//	    population := eng.CreateInitialPopulation()
//
//	    for gen := 0; gen < 5; gen++ {
//	        scores, err := evaluator.EvaluatePopulation(context.Background(), ev, population, task, 3)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        mode := genome.ModeDarwin
//	        if gen%2 == 1 {
//	            mode = genome.ModeKropotkin
//	        }
//	        population, err = eng.EvolveGeneration(context.Background(), population, scores, mode)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    fmt.Println(population[0].Render(task))
//	}
//
// The evoctl command wraps this loop with flags for every engine knob; see
// cmd/evoctl.
package evoprompt
