// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Create games against a dictionary with a fixed or random target.
//   - Validate and apply guesses (length, alphabetic, in dictionary).
//   - Narrow the candidate list with every clue and check it stays sound.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Feedback and filtering live in the feedback package.
//   - IDs are uuids so they can be handed to clients as-is.
package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// Option customises a new Game.
type Option func(*Game)

// WithScorer routes feedback through sc (typically a shared memo).
func WithScorer(sc feedback.Scorer) Option {
	return func(g *Game) {
		if sc != nil {
			g.scorer = sc
		}
	}
}

// WithMaxGuesses overrides the guess budget; n <= 0 keeps the default.
func WithMaxGuesses(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.MaxGuesses = n
		}
	}
}

// New starts a game against target, which must be a dictionary word.
func New(dict *words.Dictionary, target string, opts ...Option) (*Game, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !dict.Contains(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	g := &Game{
		ID:         uuid.NewString(),
		Target:     target,
		MaxGuesses: DefaultMaxGuesses,
		Candidates: dict.Words(),
		dict:       dict,
		scorer:     feedback.Direct,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// RandomTarget picks a cryptographically random word from list.
func RandomTarget(list []string) string {
	if len(list) == 0 {
		return ""
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[n.Int64()]
}

// Mirror starts a fresh game with the same target, dictionary and budget.
func (g *Game) Mirror() (*Game, error) {
	return New(g.dict, g.Target, WithScorer(g.scorer), WithMaxGuesses(g.MaxGuesses))
}

// Apply validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be five letters a–z (case is ignored).
//   - Guess must be in the dictionary.
//
// The candidate list is narrowed by the clue. If the target does not
// survive, feedback.ErrInvariantViolation is returned and the game is left
// unchanged.
func (g *Game) Apply(guess string) (feedback.Vector, State, error) {
	if g.Finished {
		return feedback.Vector{}, g.State(), ErrFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if !words.Valid(guess) {
		return feedback.Vector{}, g.State(), fmt.Errorf("%w: %q", ErrInvalidGuess, guess)
	}
	if !g.dict.Contains(guess) {
		return feedback.Vector{}, g.State(), fmt.Errorf("%w: %q", ErrNotInWordList, guess)
	}

	fb := g.scorer.Score(guess, g.Target)
	next := feedback.FilterBy(g.scorer, g.Candidates, guess, fb)
	if !slices.Contains(next, g.Target) {
		return fb, g.State(), fmt.Errorf("game %s: guess %q: %w", g.ID, guess, feedback.ErrInvariantViolation)
	}
	g.Candidates = next
	g.History = append(g.History, Turn{Guess: guess, Feedback: fb})

	if fb.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.History) >= g.MaxGuesses {
		g.Finished = true
	}
	return fb, g.State(), nil
}

// State reports the coarse game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return Won
		}
		return Lost
	}
	return Playing
}

// Previous returns the guesses made so far, oldest first.
func (g *Game) Previous() []string {
	out := make([]string, len(g.History))
	for i, t := range g.History {
		out[i] = t.Guess
	}
	return out
}

// Snapshot copies the state a hint request needs.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Candidates: slices.Clone(g.Candidates),
		Previous:   g.Previous(),
		History:    slices.Clone(g.History),
	}
}
