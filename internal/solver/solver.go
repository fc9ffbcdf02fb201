// internal/solver/solver.go
//
// Guess-selection strategies.
// Responsibilities:
//   - Define the Solver contract shared by every strategy.
//   - Provide the error taxonomy used across strategies.
//
// Notes:
//   - Solvers hold configuration only (scorer, heuristic order, parameters).
//     Candidates are always passed per call and never retained.
//   - Search state (partitions, trees, memo tables) is local to one call.
package solver

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

var (
	// ErrEmptyCandidates is returned when asked to choose from no words.
	ErrEmptyCandidates = errors.New("solver: no candidates")
	// ErrNoWinnableContinuation marks a simulated subset with no valid guess.
	// MCTS scores it as a loss; it never escapes SelectGuess.
	ErrNoWinnableContinuation = errors.New("solver: no winnable continuation")
)

// Solver picks the next guess from the words still consistent with all feedback.
type Solver interface {
	SelectGuess(ctx context.Context, candidates []string) (string, error)
	Name() string
}

// seedSource hands out pseudo-random values from an explicit seed.
// A zero seed is replaced by the current time.
type seedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSeedSource(seed int64) *seedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seedSource) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *seedSource) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}
