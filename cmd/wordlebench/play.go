package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/game"
	"github.com/sebytremblay/wordle-bot/internal/manager"
)

var (
	playSolver string
	playStart  string
	playMax    int

	playCmd = &cobra.Command{
		Use:   "play [target]",
		Short: "Watch a solver play one game (random answer when no target is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
)

func init() {
	f := playCmd.Flags()
	f.StringVarP(&playSolver, "solver", "s", "", "solver id (default: SOLVER_DEFAULT)")
	f.StringVar(&playStart, "start", "", "fixed opening guess")
	f.IntVar(&playMax, "max-guesses", game.DefaultMaxGuesses, "guess budget")
}

func runPlay(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	target := game.RandomTarget(e.answers)
	if len(args) == 1 {
		target = args[0]
	}
	g, err := game.New(e.dict, target, game.WithScorer(e.memo), game.WithMaxGuesses(playMax))
	if err != nil {
		return err
	}
	mgr := manager.New(e.dict, e.order, e.memo, e.cfg.Solvers)
	id, err := mgr.Resolve(playSolver)
	if err != nil {
		return err
	}

	out := termenv.NewOutput(os.Stdout)
	fmt.Fprintf(os.Stdout, "%s vs %s (%d words)\n\n", out.String(id).Bold(), strings.Repeat("?", feedback.WordLength), len(g.Candidates))
	for !g.Finished {
		guess := playStart
		took := time.Duration(0)
		if len(g.History) > 0 || guess == "" {
			start := time.Now()
			h, err := mgr.Hint(cmd.Context(), g.Candidates, g.Previous(), id)
			if err != nil {
				return err
			}
			guess, took = h.Word, time.Since(start)
		}
		fb, _, err := g.Apply(guess)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s  %4d left  %s\n", tiles(out, guess, fb), len(g.Candidates), took.Round(time.Millisecond))
	}

	verdict := out.String("solved").Foreground(out.Color(hitColor))
	if !g.Won {
		verdict = out.String("lost").Foreground(out.Color("#d9534f"))
	}
	fmt.Fprintf(os.Stdout, "\n%s: %s in %d/%d\n", verdict, strings.ToUpper(g.Target), len(g.History), g.MaxGuesses)
	return nil
}

const (
	hitColor     = "#6aaa64"
	presentColor = "#c9b458"
	missColor    = "#787c7e"
)

// tiles renders a guess as coloured letter tiles.
func tiles(out *termenv.Output, guess string, fb feedback.Vector) string {
	var b strings.Builder
	for i := 0; i < len(guess) && i < feedback.WordLength; i++ {
		bg := missColor
		switch fb[i] {
		case feedback.Exact:
			bg = hitColor
		case feedback.Partial:
			bg = presentColor
		}
		b.WriteString(out.String(" " + strings.ToUpper(guess[i:i+1]) + " ").
			Bold().
			Foreground(out.Color("#ffffff")).
			Background(out.Color(bg)).
			String())
	}
	return b.String()
}
