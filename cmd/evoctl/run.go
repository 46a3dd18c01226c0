package main

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/mutualist/evoprompt/pkg/cache"
	"github.com/mutualist/evoprompt/pkg/engine"
	"github.com/mutualist/evoprompt/pkg/evaluator"
	"github.com/mutualist/evoprompt/pkg/genome"
	"github.com/mutualist/evoprompt/pkg/logging"
)

type runFlags struct {
	generations   int
	population    int
	commonsSize   int
	survivalRate  float64
	sharingProb   float64
	mutationRate  float64
	seed          int64
	mode          string
	task          string
	poolPath      string
	evaluatorKind string
	judgeModel    string
	cacheKind     string
	cachePath     string
	concurrency   int
	logLevel      string
}

var flags runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the evolutionary loop for a number of generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvolution(cmd.Context())
	},
}

func init() {
	runCmd.Flags().IntVar(&flags.generations, "generations", 3, "number of generations to evolve")
	runCmd.Flags().IntVar(&flags.population, "population", 5, "population size")
	runCmd.Flags().IntVar(&flags.commonsSize, "commons-size", 10, "maximum size of the knowledge commons")
	runCmd.Flags().Float64Var(&flags.survivalRate, "survival-rate", 0.5, "surviving fraction under darwin selection")
	runCmd.Flags().Float64Var(&flags.sharingProb, "sharing-prob", 0.5, "commons adoption probability under kropotkin selection")
	runCmd.Flags().Float64Var(&flags.mutationRate, "mutation-rate", 0.2, "per-child mutation probability")
	runCmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (0 = time-based)")
	runCmd.Flags().StringVar(&flags.mode, "mode", "alternate", "selection policy: alternate, darwin or kropotkin")
	runCmd.Flags().StringVar(&flags.task, "task", "Explain the concept of recursion in Python", "task the prompts are bred for")
	runCmd.Flags().StringVar(&flags.poolPath, "pool", "", "YAML fragment catalog (empty = built-in)")
	runCmd.Flags().StringVar(&flags.evaluatorKind, "evaluator", "heuristic", "fitness evaluator: heuristic or judge")
	runCmd.Flags().StringVar(&flags.judgeModel, "judge-model", "", "Anthropic model for the judge evaluator")
	runCmd.Flags().StringVar(&flags.cacheKind, "cache", "none", "fitness cache: none, memory or sqlite")
	runCmd.Flags().StringVar(&flags.cachePath, "cache-path", "fitness.db", "SQLite cache path")
	runCmd.Flags().IntVar(&flags.concurrency, "concurrency", evaluator.DefaultConcurrency, "parallel fitness evaluations")
	runCmd.Flags().StringVar(&flags.logLevel, "log-level", "INFO", "log severity: DEBUG, INFO, WARN or ERROR")

	rootCmd.AddCommand(runCmd)
}

// modeForGeneration implements the selection policy. The alternate policy
// mirrors the classic demo: darwin on even generations, kropotkin on odd.
func modeForGeneration(policy string, generation int) (genome.Mode, error) {
	if policy == "alternate" {
		if generation%2 == 0 {
			return genome.ModeDarwin, nil
		}
		return genome.ModeKropotkin, nil
	}
	return genome.ParseMode(policy)
}

func buildEvaluator() (evaluator.Evaluator, func(), error) {
	var ev evaluator.Evaluator
	switch flags.evaluatorKind {
	case "heuristic":
		ev = evaluator.NewHeuristic(flags.seed)
	case "judge":
		judge, err := evaluator.NewJudge("", anthropic.Model(flags.judgeModel))
		if err != nil {
			return nil, nil, err
		}
		ev = judge
	default:
		return nil, nil, fmt.Errorf("unknown evaluator %q", flags.evaluatorKind)
	}

	cleanup := func() {}
	if flags.cacheKind != "none" {
		store, err := cache.New(cache.Config{
			Type:       flags.cacheKind,
			Path:       flags.cachePath,
			DefaultTTL: 24 * time.Hour,
		})
		if err != nil {
			return nil, nil, err
		}
		ev = evaluator.NewCached(ev, store, 0)
		cleanup = func() { store.Close() }
	}

	return ev, cleanup, nil
}

func runEvolution(ctx context.Context) error {
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(flags.logLevel),
		Outputs:  []logging.Output{logging.NewConsoleOutput(false)},
	}))
	logger := logging.GetLogger()

	pool := genome.DefaultPool()
	if flags.poolPath != "" {
		var err error
		if pool, err = genome.LoadPool(flags.poolPath); err != nil {
			return err
		}
	}

	eng, err := engine.New(pool,
		engine.WithPopulationSize(flags.population),
		engine.WithCommonsMaxSize(flags.commonsSize),
		engine.WithSurvivalRate(flags.survivalRate),
		engine.WithSharingProbability(flags.sharingProb),
		engine.WithMutationRate(flags.mutationRate),
		engine.WithSeed(flags.seed),
	)
	if err != nil {
		return err
	}

	ev, cleanup, err := buildEvaluator()
	if err != nil {
		return err
	}
	defer cleanup()

	population := eng.CreateInitialPopulation()
	logger.Info(ctx, "starting run: task=%q, population=%d, generations=%d",
		flags.task, flags.population, flags.generations)

	var scores []float64
	for gen := 0; gen < flags.generations; gen++ {
		scores, err = evaluator.EvaluatePopulation(ctx, ev, population, flags.task, flags.concurrency)
		if err != nil {
			return err
		}

		mode, err := modeForGeneration(flags.mode, gen)
		if err != nil {
			return err
		}

		stats := engine.SummarizePopulation(population, scores)
		logger.Info(ctx, "generation %d (%s): best=%.2f mean=%.2f diversity=%.2f",
			gen, mode, stats.BestFitness, stats.MeanFitness, stats.DiversityIndex)

		population, err = eng.EvolveGeneration(ctx, population, scores, mode)
		if err != nil {
			return err
		}

		if mode == genome.ModeKropotkin {
			cs := eng.GetCommonsStats()
			logger.Info(ctx, "commons: %d entries, %d unique fragments", cs.Size, cs.UniqueFragments)
		}
	}

	// Score the final generation and report the champion.
	scores, err = evaluator.EvaluatePopulation(ctx, ev, population, flags.task, flags.concurrency)
	if err != nil {
		return err
	}
	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	best := population[bestIdx]
	fmt.Printf("\nBest individual after %d generations (%.2f/10):\n  %s\n  %s\n",
		flags.generations, scores[bestIdx], best, best.Render(flags.task))

	return nil
}
