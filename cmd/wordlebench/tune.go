package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sebytremblay/wordle-bot/internal/bench"
	"github.com/sebytremblay/wordle-bot/internal/manager"
	"github.com/sebytremblay/wordle-bot/internal/solver"
)

// Search ranges for the MCTS hyperparameters.
const (
	minSimulations = 10
	maxSimulations = 250
	minExploration = 0.01
	maxExploration = 10.0
	minReward      = 0.01
	maxReward      = 100.0
)

var (
	tuneTrials   int
	tuneGames    int
	tuneWorkers  int
	tuneMax      int
	tuneOut      string
	tuneBaseline string

	tuneCmd = &cobra.Command{
		Use:   "tune",
		Short: "Random-search the MCTS hyperparameters over a sample of answers",
		Long: "Each trial samples simulations, exploration and reward multiplier, plays the\n" +
			"sampled answers with that MCTS setting and scores it by average guesses.\n" +
			"Trial 0 is the configured setting, so the winner is never worse than it.",
		RunE: runTune,
	}
)

func init() {
	f := tuneCmd.Flags()
	f.IntVar(&tuneTrials, "trials", 50, "parameter settings to try")
	f.IntVar(&tuneGames, "games", 100, "answers sampled per trial")
	f.IntVarP(&tuneWorkers, "workers", "w", 0, "parallel games (0 = GOMAXPROCS)")
	f.IntVar(&tuneMax, "max-guesses", 500, "guess cap; high so every game is played out")
	f.StringVarP(&tuneOut, "out", "o", "", "write the best setting as a SOLVER_CONFIG file")
	f.StringVar(&tuneBaseline, "baseline", "", "bench --parquet results to list alongside the trials")
}

type trial struct {
	n   int
	cfg solver.MCTSConfig
	sum bench.Summary
}

func runTune(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	if tuneTrials < 0 || tuneGames < 1 {
		return errors.New("tune: need --trials >= 0 and --games >= 1")
	}
	s := e.cfg.Solvers.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))
	targets := sampleTargets(rng, e.answers, tuneGames)
	log.Info().Int64("seed", s).Int("games", len(targets)).Int("trials", tuneTrials).Msg("tuning mcts")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base := e.cfg.Solvers
	base.Seed = s
	bar := progressbar.Default(int64(tuneTrials+1), "trials")
	var trials []trial
	for n := 0; n <= tuneTrials; n++ {
		cfg := base.MCTS
		if n > 0 {
			cfg = sampleMCTS(rng, base.MCTS)
		}
		solvers := base
		solvers.MCTS = cfg
		_, sum, err := bench.Run(ctx, bench.Env{Dict: e.dict, Order: e.order, Scorer: e.memo, Solvers: solvers}, bench.Options{
			Solver:     manager.MCTS,
			Targets:    targets,
			MaxGuesses: tuneMax,
			Workers:    tuneWorkers,
		})
		if errors.Is(err, context.Canceled) && len(trials) > 0 {
			log.Warn().Int("completed", len(trials)).Msg("interrupted; reporting finished trials")
			break
		}
		if err != nil {
			return fmt.Errorf("trial %d: %w", n, err)
		}
		trials = append(trials, trial{n: n, cfg: cfg, sum: sum})
		_ = bar.Add(1)
		log.Debug().
			Int("trial", n).
			Int("simulations", cfg.Simulations).
			Float64("exploration", cfg.Exploration).
			Float64("reward_multiplier", cfg.RewardMultiplier).
			Float64("average", sum.Average).
			Msg("trial finished")
	}
	_ = bar.Finish()
	rankTrials(trials)

	var baseline *bench.Summary
	if tuneBaseline != "" {
		rows, err := bench.ReadParquet(tuneBaseline)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		if len(rows) > 0 {
			b := bench.Summarize(rows[0].Solver, rows, 0)
			baseline = &b
		}
	}
	renderTrials(trials, baseline)

	if tuneOut != "" {
		best := base
		best.MCTS = trials[0].cfg
		if err := writeSolverConfig(tuneOut, best); err != nil {
			return err
		}
		log.Info().Str("file", tuneOut).Int("trial", trials[0].n).Msg("best setting saved; point SOLVER_CONFIG at it")
	}
	return nil
}

// sampleTargets draws n distinct answers.
func sampleTargets(rng *rand.Rand, answers []string, n int) []string {
	if n >= len(answers) {
		return slices.Clone(answers)
	}
	out := make([]string, n)
	for i, j := range rng.Perm(len(answers))[:n] {
		out[i] = answers[j]
	}
	return out
}

// sampleMCTS draws the tuned parameters uniformly from their ranges and keeps
// the rest of base.
func sampleMCTS(rng *rand.Rand, base solver.MCTSConfig) solver.MCTSConfig {
	base.Simulations = minSimulations + rng.Intn(maxSimulations-minSimulations+1)
	base.Exploration = minExploration + rng.Float64()*(maxExploration-minExploration)
	base.RewardMultiplier = minReward + rng.Float64()*(maxReward-minReward)
	return base
}

// rankTrials orders trials best first: fewer average guesses, then higher
// win rate, then earlier trial.
func rankTrials(trials []trial) {
	slices.SortStableFunc(trials, func(a, b trial) int {
		switch {
		case a.sum.Average != b.sum.Average:
			if a.sum.Average < b.sum.Average {
				return -1
			}
			return 1
		case a.sum.WinRate != b.sum.WinRate:
			if a.sum.WinRate > b.sum.WinRate {
				return -1
			}
			return 1
		}
		return a.n - b.n
	})
}

func renderTrials(trials []trial, baseline *bench.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("MCTS tuning")
	t.AppendHeader(table.Row{"Trial", "Simulations", "Exploration", "Reward mult", "Average", "Win rate", "Unsolved", "Elapsed"})
	for _, tr := range trials {
		label := fmt.Sprint(tr.n)
		if tr.n == 0 {
			label = "configured"
		}
		t.AppendRow(table.Row{
			label, tr.cfg.Simulations,
			fmt.Sprintf("%.3f", tr.cfg.Exploration),
			fmt.Sprintf("%.3f", tr.cfg.RewardMultiplier),
			fmt.Sprintf("%.3f", tr.sum.Average),
			fmt.Sprintf("%.2f%%", 100*tr.sum.WinRate),
			len(tr.sum.Unsolved), tr.sum.Elapsed.Round(time.Millisecond),
		})
	}
	if baseline != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{
			"baseline " + baseline.Solver, "", "", "",
			fmt.Sprintf("%.3f", baseline.Average),
			fmt.Sprintf("%.2f%%", 100*baseline.WinRate),
			len(baseline.Unsolved), "",
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// writeSolverConfig stores cfg in the format config.LoadSolverFile reads.
func writeSolverConfig(path string, cfg manager.Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode solver config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
