// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - State: coarse game state (playing/won/lost).
//   - Turn: one (guess, feedback) entry of the history.
//   - Game: state for a single in-progress or finished game.
//   - Snapshot: the read-only view handed to solvers and caches.

package game

import (
	"errors"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// State is the coarse game state reported to clients.
type State string

const (
	Playing State = "playing"
	Won     State = "won"
	Lost    State = "lost"
)

// DefaultMaxGuesses is the classic six-row board.
const DefaultMaxGuesses = 6

var (
	ErrFinished      = errors.New("game finished")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrNotInWordList = errors.New("not in word list")
	ErrInvalidTarget = errors.New("target not in dictionary")
)

// Turn is one entry of the guess history.
type Turn struct {
	Guess    string          `json:"guess"`
	Feedback feedback.Vector `json:"feedback"`
}

// Game holds the state of a single game.
type Game struct {
	ID         string   // Unique game identifier (uuid).
	Target     string   // The hidden word (always lowercase).
	MaxGuesses int      // Guess budget (typically 6).
	History    []Turn   // Guesses and their feedback, oldest first.
	Candidates []string // Dictionary words consistent with History.
	Finished   bool     // True once the game is over (won or lost).
	Won        bool     // True if the game was finished with a win.

	dict   *words.Dictionary
	scorer feedback.Scorer
}

// Snapshot is what a hint request needs to know about a game.
type Snapshot struct {
	Candidates []string `json:"candidates"`
	Previous   []string `json:"previous_guesses"`
	History    []Turn   `json:"history"`
}
