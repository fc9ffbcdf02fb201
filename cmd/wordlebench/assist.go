package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/manager"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

var (
	assistSolver string

	assistCmd = &cobra.Command{
		Use:   "assist",
		Short: "Suggest guesses for a puzzle played elsewhere",
		Long: "Enter one line per guess played: the word and its clue as five digits\n" +
			"(0 absent, 1 present, 2 correct), e.g. \"crate 01020\". A suggestion is\n" +
			"printed before the first line and after every clue.",
		Args: cobra.NoArgs,
		RunE: runAssist,
	}
)

func init() {
	assistCmd.Flags().StringVarP(&assistSolver, "solver", "s", "", "solver id (default: SOLVER_DEFAULT)")
}

func runAssist(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	mgr := manager.New(e.dict, e.order, e.memo, e.cfg.Solvers)
	id, err := mgr.Resolve(assistSolver)
	if err != nil {
		return err
	}
	a := &assistant{
		dict:       e.dict,
		scorer:     e.memo,
		mgr:        mgr,
		solver:     id,
		candidates: e.answers,
		out:        termenv.NewOutput(os.Stdout),
	}
	return a.run(cmd.Context(), os.Stdin)
}

// assistant narrows a candidate list from clues typed by the user.
type assistant struct {
	dict       *words.Dictionary
	scorer     feedback.Scorer
	mgr        *manager.Manager
	solver     string
	candidates []string
	previous   []string
	out        *termenv.Output
}

var errNoCandidates = errors.New("no word matches these clues")

func (a *assistant) run(ctx context.Context, in io.Reader) error {
	if err := a.suggest(ctx); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		guess, fb, err := parseClue(line)
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		if !a.dict.Contains(guess) {
			fmt.Fprintf(a.out, "%q is not in the word list\n", guess)
			continue
		}
		fmt.Fprintln(a.out, tiles(a.out, guess, fb))
		if fb.Solved() {
			fmt.Fprintf(a.out, "solved in %d\n", len(a.previous)+1)
			return nil
		}
		a.previous = append(a.previous, guess)
		a.candidates = feedback.FilterBy(a.scorer, a.candidates, guess, fb)
		if len(a.candidates) == 0 {
			return errNoCandidates
		}
		if err := a.suggest(ctx); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (a *assistant) suggest(ctx context.Context) error {
	h, err := a.mgr.Hint(ctx, a.candidates, a.previous, a.solver)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "try %s (%d left)\n", a.out.String(strings.ToUpper(h.Word)).Bold(), h.Remaining)
	return nil
}

// parseClue reads "word digits", also accepting "word:digits".
func parseClue(line string) (string, feedback.Vector, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ":", " "))
	if len(fields) != 2 {
		return "", feedback.Vector{}, fmt.Errorf("want \"<guess> <clue>\", e.g. \"crate 01020\"; got %q", line)
	}
	guess := strings.ToLower(fields[0])
	if !words.Valid(guess) {
		return "", feedback.Vector{}, fmt.Errorf("%q is not a %d-letter word", fields[0], feedback.WordLength)
	}
	fb, err := feedback.ParseVector(fields[1])
	if err != nil {
		return "", feedback.Vector{}, err
	}
	return guess, fb, nil
}
