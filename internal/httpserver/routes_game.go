// internal/httpserver/routes_game.go
//
// Game lifecycle endpoints:
//   - POST /newgame    → start a game (random, daily or fixed target)
//   - POST /guess      → submit a guess and receive feedback
//   - POST /mirrorgame → replay an existing game's target from scratch
//
// The target is never sent to the client until the game is finished.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/game"
	"github.com/sebytremblay/wordle-bot/internal/store"
)

// Game modes accepted by POST /newgame.
const (
	modeRandom = "random"
	modeDaily  = "daily"
)

// newGameReq payload for POST /newgame.
type newGameReq struct {
	Solver string `json:"solver"` // optional; selects the session's active solver
	Mode   string `json:"mode"`   // "random" (default) | "daily"
	Target string `json:"target"` // optional fixed target (testing, playgrounds)
}

// gameRes is returned by POST /newgame and POST /mirrorgame.
type gameRes struct {
	GameID     string     `json:"game_id"`
	SolverType string     `json:"solver_type"`
	State      game.State `json:"state"`
	MaxGuesses int        `json:"max_guesses"`
	Mode       string     `json:"mode"`
}

// handleNewGame creates a game plus its solver manager and stores the session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = modeRandom
	}
	target := strings.TrimSpace(req.Target)
	switch {
	case target != "":
	case mode == modeDaily:
		target = game.DailyTarget(time.Now(), s.Config.DailySalt, s.Answers)
	case mode == modeRandom:
		target = game.RandomTarget(s.Answers)
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	g, err := game.New(s.Dict, target, game.WithScorer(s.Scorer), game.WithMaxGuesses(s.Config.MaxGuesses))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_target")
		return
	}
	s.startSession(w, r, g, req.Solver, mode)
}

// mirrorReq payload for POST /mirrorgame.
type mirrorReq struct {
	GameID string `json:"game_id"`
	Solver string `json:"solver"`
}

// handleMirrorGame starts a new game with the same target as an existing one,
// so a solver can replay a game a human just played.
func (s *Server) handleMirrorGame(w http.ResponseWriter, r *http.Request) {
	var req mirrorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.Store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	sess.Lock()
	g, err := sess.Game.Mirror()
	solverID := req.Solver
	if solverID == "" {
		solverID, _ = sess.Solvers.Active()
	}
	sess.Unlock()
	if err != nil {
		log.Error().Err(err).Str("game_id", req.GameID).Msg("mirror game")
		writeError(w, http.StatusInternalServerError, "mirror_failed")
		return
	}
	s.startSession(w, r, g, solverID, "mirror")
}

// startSession attaches a solver manager to g, activates solverID (or the
// default) and saves the session.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, g *game.Game, solverID, mode string) {
	mgr := s.newManager()
	if solverID == "" {
		solverID = mgr.Default()
	}
	key, err := mgr.Resolve(solverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_solver")
		return
	}
	if err := s.Store.Save(r.Context(), store.NewSession(g, mgr)); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	gamesStarted.WithLabelValues(mode).Inc()
	log.Info().Str("game_id", g.ID).Str("solver", key).Str("mode", mode).Msg("game started")

	_ = json.NewEncoder(w).Encode(gameRes{
		GameID:     g.ID,
		SolverType: key,
		State:      g.State(),
		MaxGuesses: g.MaxGuesses,
		Mode:       mode,
	})
}

// guessReq/Res payloads for POST /guess.
type guessReq struct {
	GameID string `json:"game_id"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	GameID    string          `json:"game_id"`
	Feedback  feedback.Vector `json:"feedback"`
	State     game.State      `json:"state"`
	Remaining int             `json:"remaining"`
	Guesses   int             `json:"guesses"`
	Answer    string          `json:"answer,omitempty"` // revealed once finished
}

// handleGuess applies a guess to the session's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.Store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	sess.Lock()
	defer sess.Unlock()
	g := sess.Game
	fb, state, err := g.Apply(req.Guess)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusBadRequest, "game_finished")
		return
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, "not_in_word_list")
		return
	case errors.Is(err, feedback.ErrInvariantViolation):
		log.Error().Err(err).Str("game_id", g.ID).Msg("candidate filter dropped the target")
		writeError(w, http.StatusInternalServerError, "invariant_violation")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	guessesTotal.WithLabelValues(string(state)).Inc()

	res := guessRes{
		GameID:    g.ID,
		Feedback:  fb,
		State:     state,
		Remaining: len(g.Candidates),
		Guesses:   len(g.History),
	}
	if g.Finished {
		res.Answer = g.Target
	}
	_ = json.NewEncoder(w).Encode(res)
}
