// internal/bench/bench.go
//
// Offline solver benchmark.
// Responsibilities:
//   - Play one full game per target word with a chosen solver.
//   - Spread games over a bounded set of workers, each with its own solver
//     manager so sessions never share solver state. Seeded solvers are
//     rebuilt per target with seed+index so a run is reproducible for any
//     worker count.
//   - Summarise the results (win rate, guess distribution, hard words).
//
// Notes:
//   - Games are played through game.Game, so every clue is checked against
//     the target exactly as the server does.
//   - A game is a win when it is solved within WinLimit guesses; it keeps
//     going up to MaxGuesses so slow solves still count towards the average.
package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/game"
	"github.com/sebytremblay/wordle-bot/internal/manager"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

const (
	// WinLimit is the classic six-row board.
	WinLimit = game.DefaultMaxGuesses
	// HardThreshold flags targets that needed more guesses than this.
	HardThreshold = 10
	// DefaultMaxGuesses caps a single benchmark game.
	DefaultMaxGuesses = 20
)

// Options controls a benchmark run.
type Options struct {
	Solver     string        // solver id, as accepted by manager.Manager
	Targets    []string      // words to solve; each is played once
	StartWord  string        // optional fixed opener
	MaxGuesses int           // per-game cap; 0 means DefaultMaxGuesses
	Workers    int           // 0 means GOMAXPROCS
	HintBudget time.Duration // per-guess solver deadline; 0 means none

	// OnResult is called after every finished game, from worker goroutines.
	OnResult func(GameResult)
}

// Env holds the shared read-only collaborators.
type Env struct {
	Dict    *words.Dictionary
	Order   *words.Order
	Scorer  feedback.Scorer
	Solvers manager.Config
}

// GameResult is one benchmark game. Field tags double as the parquet schema.
type GameResult struct {
	Target     string `parquet:"target,dict" json:"target"`
	Solver     string `parquet:"solver,dict" json:"solver"`
	Guesses    int32  `parquet:"guesses" json:"guesses"`
	Solved     bool   `parquet:"solved" json:"solved"`
	Won        bool   `parquet:"won" json:"won"`
	Path       string `parquet:"path" json:"path"` // comma separated guesses
	DurationMs int64  `parquet:"duration_ms" json:"duration_ms"`
}

// Run plays every target and returns the per-game results in target order.
func Run(ctx context.Context, env Env, opts Options) ([]GameResult, Summary, error) {
	if len(opts.Targets) == 0 {
		return nil, Summary{}, errors.New("bench: no targets")
	}
	if opts.MaxGuesses <= 0 {
		opts.MaxGuesses = DefaultMaxGuesses
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	opts.StartWord = strings.ToLower(strings.TrimSpace(opts.StartWord))
	if opts.StartWord != "" && !env.Dict.Contains(opts.StartWord) {
		return nil, Summary{}, fmt.Errorf("bench: start word %q: %w", opts.StartWord, game.ErrNotInWordList)
	}
	// resolve once so a bad id fails before any work starts
	solverID, err := manager.New(env.Dict, env.Order, env.Scorer, env.Solvers).Resolve(opts.Solver)
	if err != nil {
		return nil, Summary{}, err
	}
	opts.Solver = solverID
	// seeded solvers get a fresh manager per target so results do not depend
	// on which worker picked the target up
	randomized := manager.Randomized(solverID)

	results := make([]GameResult, len(opts.Targets))
	jobs := make(chan int)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range opts.Targets {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error {
			mgr := manager.New(env.Dict, env.Order, env.Scorer, env.Solvers)
			for i := range jobs {
				if randomized {
					mgr = manager.New(env.Dict, env.Order, env.Scorer, targetSeeds(env.Solvers, i))
				}
				res, err := Play(gctx, env, mgr, opts, opts.Targets[i])
				if err != nil {
					return fmt.Errorf("bench: target %q: %w", opts.Targets[i], err)
				}
				results[i] = res
				if opts.OnResult != nil {
					opts.OnResult(res)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summarize(solverID, results, time.Since(start))
	log.Info().
		Str("solver", solverID).
		Int("games", sum.Games).
		Float64("win_rate", sum.WinRate).
		Float64("average", sum.Average).
		Dur("elapsed", sum.Elapsed).
		Msg("benchmark finished")
	return results, sum, nil
}

// targetSeeds derives the solver seeds for the i-th target. Zero seeds stay
// zero (time based).
func targetSeeds(cfg manager.Config, i int) manager.Config {
	cfg.Seed = offsetSeed(cfg.Seed, i)
	cfg.MCTS.Seed = offsetSeed(cfg.MCTS.Seed, i)
	return cfg
}

func offsetSeed(base int64, i int) int64 {
	if base == 0 {
		return 0
	}
	if s := base + int64(i); s != 0 {
		return s
	}
	return math.MinInt64
}

// Play runs a single game against target using mgr for hints.
func Play(ctx context.Context, env Env, mgr *manager.Manager, opts Options, target string) (GameResult, error) {
	maxGuesses := opts.MaxGuesses
	if maxGuesses <= 0 {
		maxGuesses = DefaultMaxGuesses
	}
	g, err := game.New(env.Dict, target, game.WithScorer(env.Scorer), game.WithMaxGuesses(maxGuesses))
	if err != nil {
		return GameResult{}, err
	}

	start := time.Now()
	for !g.Finished {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		var guess string
		if len(g.History) == 0 && opts.StartWord != "" {
			guess = opts.StartWord
		} else {
			guess, err = hint(ctx, mgr, g, opts)
			if err != nil {
				return GameResult{}, err
			}
		}
		if _, _, err := g.Apply(guess); err != nil {
			return GameResult{}, err
		}
	}

	n := len(g.History)
	return GameResult{
		Target:     g.Target,
		Solver:     opts.Solver,
		Guesses:    int32(n),
		Solved:     g.Won,
		Won:        g.Won && n <= WinLimit,
		Path:       strings.Join(g.Previous(), ","),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

func hint(ctx context.Context, mgr *manager.Manager, g *game.Game, opts Options) (string, error) {
	if opts.HintBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.HintBudget)
		defer cancel()
	}
	h, err := mgr.Hint(ctx, g.Candidates, g.Previous(), opts.Solver)
	if err != nil {
		return "", err
	}
	return h.Word, nil
}

// Summary aggregates a run.
type Summary struct {
	Solver       string
	Games        int
	Wins         int
	WinRate      float64 // fraction of games solved within WinLimit
	Average      float64 // mean guesses over all games
	Median       float64
	Distribution map[int]int // guesses -> games, solved games only
	Unsolved     []string    // targets not found within the cap
	Hard         []string    // targets needing more than HardThreshold guesses
	Elapsed      time.Duration
}

// Summarize computes the run statistics. Unsolved games count with the
// number of guesses they used.
func Summarize(solverID string, results []GameResult, elapsed time.Duration) Summary {
	s := Summary{
		Solver:       solverID,
		Games:        len(results),
		Distribution: make(map[int]int),
		Elapsed:      elapsed,
	}
	if len(results) == 0 {
		return s
	}
	counts := make([]int, 0, len(results))
	total := 0
	for _, r := range results {
		n := int(r.Guesses)
		counts = append(counts, n)
		total += n
		if r.Won {
			s.Wins++
		}
		if r.Solved {
			s.Distribution[n]++
		} else {
			s.Unsolved = append(s.Unsolved, r.Target)
		}
		if n > HardThreshold || !r.Solved {
			s.Hard = append(s.Hard, r.Target)
		}
	}
	s.WinRate = float64(s.Wins) / float64(len(results))
	s.Average = float64(total) / float64(len(results))

	slices.Sort(counts)
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		s.Median = float64(counts[mid])
	} else {
		s.Median = float64(counts[mid-1]+counts[mid]) / 2
	}
	slices.Sort(s.Hard)
	slices.Sort(s.Unsolved)
	return s
}

// Buckets returns the distribution keys in ascending order.
func (s Summary) Buckets() []int {
	keys := make([]int, 0, len(s.Distribution))
	for k := range s.Distribution {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
