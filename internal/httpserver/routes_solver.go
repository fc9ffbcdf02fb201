// internal/httpserver/routes_solver.go
//
// Solver endpoints:
//   - GET /hint?game_id=…&solver=…      → next guess suggestion for a game
//   - GET /solvers                      → registered solver kinds
//   - GET /remaining-words?game_id=…    → candidates still consistent with the clues

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/hintcache"
	"github.com/sebytremblay/wordle-bot/internal/manager"
	"github.com/sebytremblay/wordle-bot/internal/solver"
)

type hintRes struct {
	GameID     string `json:"game_id"`
	Hint       string `json:"hint"`
	SolverType string `json:"solver_type"`
	Cached     bool   `json:"cached"`
	Remaining  int    `json:"remaining"`
}

// handleHint suggests the next guess for a game. The solver parameter
// switches the session's active solver; without it the active (or default)
// solver answers.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game_id")
	sess, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	sess.Lock()
	if sess.Game.Finished {
		sess.Unlock()
		writeError(w, http.StatusBadRequest, "game_finished")
		return
	}
	snap := sess.Game.Snapshot()
	sess.Unlock()

	mgr := sess.Solvers
	key, err := mgr.Resolve(r.URL.Query().Get("solver"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_solver")
		return
	}
	hash, err := hintcache.StateHash(snap.History)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Config.HintTimeout)
	defer cancel()
	start := time.Now()
	hint, cached, err := hintcache.GetOrCompute(ctx, s.Hints, hintcache.Key{StateHash: hash, SolverID: key},
		func(ctx context.Context) (string, error) {
			h, err := mgr.Hint(ctx, snap.Candidates, snap.Previous, key)
			return h.Word, err
		})
	switch {
	case errors.Is(err, manager.ErrUnknownSolverType):
		writeError(w, http.StatusBadRequest, "unknown_solver")
		return
	case errors.Is(err, solver.ErrEmptyCandidates):
		writeError(w, http.StatusConflict, "no_candidates")
		return
	case err != nil:
		log.Error().Err(err).Str("game_id", id).Str("solver", key).Msg("hint")
		writeError(w, http.StatusInternalServerError, "hint_failed")
		return
	}
	hintDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())
	hintsTotal.WithLabelValues(key, boolLabel(cached)).Inc()
	log.Debug().Str("game_id", id).Str("solver", key).Bool("cached", cached).
		Int("remaining", len(snap.Candidates)).Str("hint", hint).Msg("hint served")

	_ = json.NewEncoder(w).Encode(hintRes{
		GameID:     id,
		Hint:       hint,
		SolverType: key,
		Cached:     cached,
		Remaining:  len(snap.Candidates),
	})
}

// handleSolvers lists the registered solver kinds and the configured default.
func (s *Server) handleSolvers(w http.ResponseWriter, r *http.Request) {
	mgr := s.newManager()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"solvers": mgr.Solvers(),
		"default": mgr.Default(),
	})
}

// handleRemainingWords returns the candidates left in a game.
func (s *Server) handleRemainingWords(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Store.Get(r.Context(), r.URL.Query().Get("game_id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	sess.Lock()
	snap := sess.Game.Snapshot()
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"words": snap.Candidates,
		"count": len(snap.Candidates),
	})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
