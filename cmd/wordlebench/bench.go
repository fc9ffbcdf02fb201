package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sebytremblay/wordle-bot/internal/bench"
)

var (
	benchSolvers []string
	benchWorkers int
	benchLimit   int
	benchStart   string
	benchMax     int
	benchParquet string
	benchBudget  time.Duration

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Play every answer word with one or more solvers and report statistics",
		RunE:  runBench,
	}
)

func init() {
	f := benchCmd.Flags()
	f.StringSliceVarP(&benchSolvers, "solver", "s", []string{"greedy"}, "solver ids to compare")
	f.IntVarP(&benchWorkers, "workers", "w", 0, "parallel games (0 = GOMAXPROCS)")
	f.IntVarP(&benchLimit, "limit", "n", 0, "only play the first n answers")
	f.StringVar(&benchStart, "start", "", "fixed opening guess")
	f.IntVar(&benchMax, "max-guesses", bench.DefaultMaxGuesses, "give up after this many guesses")
	f.StringVar(&benchParquet, "parquet", "", "write per-game results to this parquet file (one file per solver: <name>.<solver>.parquet)")
	f.DurationVar(&benchBudget, "hint-budget", 0, "per-guess solver deadline, e.g. 500ms (0 = none)")
}

func runBench(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	targets := e.answers
	if benchLimit > 0 && benchLimit < len(targets) {
		targets = targets[:benchLimit]
	}
	opts := bench.Options{
		Targets:    targets,
		StartWord:  benchStart,
		MaxGuesses: benchMax,
		Workers:    benchWorkers,
		HintBudget: benchBudget,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	benv := bench.Env{Dict: e.dict, Order: e.order, Scorer: e.memo, Solvers: e.cfg.Solvers}
	var sums []bench.Summary
	for _, id := range benchSolvers {
		bar := progressbar.Default(int64(len(targets)), id)
		opts.Solver = id
		opts.OnResult = func(bench.GameResult) { _ = bar.Add(1) }

		results, sum, err := bench.Run(ctx, benv, opts)
		_ = bar.Finish()
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		sums = append(sums, sum)

		if benchParquet != "" {
			path := parquetPath(benchParquet, sum.Solver, len(benchSolvers) > 1)
			if err := bench.WriteParquet(path, results); err != nil {
				return err
			}
			log.Info().Str("file", path).Int("rows", len(results)).Msg("results written")
		}
	}

	renderSummaries(sums)
	stats := e.memo.Stats()
	log.Debug().Int("entries", stats.Size).Int64("hits", stats.Hits).Int64("misses", stats.Misses).Msg("feedback memo")
	return nil
}

// parquetPath inserts the solver id before the extension when several
// solvers share one --parquet flag.
func parquetPath(base, solverID string, multi bool) string {
	if !multi {
		return base
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i] + "." + solverID + base[i:]
	}
	return base + "." + solverID
}

func renderSummaries(sums []bench.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Solver benchmark")
	t.AppendHeader(table.Row{"Solver", "Games", "Win rate", "Average", "Median", "Unsolved", "Elapsed"})
	for _, s := range sums {
		t.AppendRow(table.Row{
			s.Solver, s.Games,
			fmt.Sprintf("%.2f%%", 100*s.WinRate),
			fmt.Sprintf("%.3f", s.Average),
			s.Median, len(s.Unsolved), s.Elapsed.Round(time.Millisecond),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	for _, s := range sums {
		d := table.NewWriter()
		d.SetOutputMirror(os.Stdout)
		d.SetTitle(s.Solver + " guess distribution")
		d.AppendHeader(table.Row{"Guesses", "Games", ""})
		for _, k := range s.Buckets() {
			n := s.Distribution[k]
			d.AppendRow(table.Row{k, n, strings.Repeat("█", scaled(n, s.Games, 40))})
		}
		d.SetStyle(table.StyleLight)
		d.Render()
		if len(s.Hard) > 0 {
			fmt.Printf("hard words (> %d guesses or unsolved): %s\n", bench.HardThreshold, strings.Join(s.Hard, ", "))
		}
	}
}

func scaled(n, total, width int) int {
	if total == 0 {
		return 0
	}
	w := n * width / total
	if w == 0 && n > 0 {
		w = 1
	}
	return w
}
