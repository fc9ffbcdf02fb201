package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebytremblay/wordle-bot/internal/config"
	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/hintcache"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

var testWords = []string{"crate", "tacet", "react", "cater", "trace", "fuzzy", "mouth", "slate"}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dict, err := words.New(testWords)
	require.NoError(t, err)
	memo, err := feedback.NewMemo(4096)
	require.NoError(t, err)
	hints, err := hintcache.NewMemory(64)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Solvers.Seed = 3
	cfg.Solvers.MCTS.Simulations = 50
	return New(Deps{
		Config: cfg,
		Dict:   dict,
		Order:  words.BuildOrder(dict.Words()),
		Scorer: memo,
		Hints:  hints,
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newGame(t *testing.T, s *Server, req newGameReq) gameRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/newgame", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[gameRes](t, rec)
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodOptions, "/guess", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
}

func TestNewGame(t *testing.T) {
	s := newTestServer(t)

	res := newGame(t, s, newGameReq{Target: "react", Solver: "minimax_2"})
	assert.NotEmpty(t, res.GameID)
	assert.Equal(t, "minimax_2", res.SolverType)
	assert.EqualValues(t, "playing", res.State)
	assert.Equal(t, 6, res.MaxGuesses)

	res = newGame(t, s, newGameReq{})
	assert.Equal(t, "greedy", res.SolverType)
	assert.Equal(t, modeRandom, res.Mode)

	daily1 := newGame(t, s, newGameReq{Mode: "daily"})
	daily2 := newGame(t, s, newGameReq{Mode: "daily"})
	assert.NotEqual(t, daily1.GameID, daily2.GameID)
	assert.Equal(t, 4, s.Store.Len())
}

func TestNewGameRejects(t *testing.T) {
	s := newTestServer(t)
	cases := map[string]newGameReq{
		"target": {Target: "zzzzz"},
		"solver": {Solver: "oracle"},
		"mode":   {Mode: "speedrun"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/newgame", req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, s.Store.Len())
}

func TestGuessFlow(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "react"})

	rec := do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: "CRATE"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[guessRes](t, rec)
	assert.Equal(t, "11211", res.Feedback.String())
	assert.EqualValues(t, "playing", res.State)
	assert.Empty(t, res.Answer)
	assert.Equal(t, 1, res.Guesses)

	rec = do(t, s, http.MethodGet, "/remaining-words?game_id="+g.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	left := decode[struct {
		Words []string `json:"words"`
		Count int      `json:"count"`
	}](t, rec)
	assert.Contains(t, left.Words, "react")
	assert.NotContains(t, left.Words, "crate")
	assert.Equal(t, res.Remaining, left.Count)

	rec = do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: "react"})
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[guessRes](t, rec)
	assert.True(t, res.Feedback.Solved())
	assert.EqualValues(t, "won", res.State)
	assert.Equal(t, "react", res.Answer)

	rec = do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: "slate"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"game_finished"}`, rec.Body.String())
}

func TestGuessErrors(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "react"})

	cases := []struct {
		name  string
		req   guessReq
		code  int
		error string
	}{
		{"unknown game", guessReq{GameID: "missing", Guess: "crate"}, http.StatusNotFound, "not_found"},
		{"bad shape", guessReq{GameID: g.GameID, Guess: "cr4te"}, http.StatusBadRequest, "invalid_guess"},
		{"not a word", guessReq{GameID: g.GameID, Guess: "qwert"}, http.StatusBadRequest, "not_in_word_list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/guess", tc.req)
			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+tc.error+`"}`, rec.Body.String())
		})
	}

	rec := do(t, s, http.MethodPost, "/guess", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHintIsCachedPerStateAndSolver(t *testing.T) {
	s := newTestServer(t)
	a := newGame(t, s, newGameReq{Target: "react"})
	b := newGame(t, s, newGameReq{Target: "trace"})

	rec := do(t, s, http.MethodGet, "/hint?game_id="+a.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[hintRes](t, rec)
	assert.False(t, first.Cached)
	assert.Equal(t, "greedy", first.SolverType)
	assert.Equal(t, len(testWords), first.Remaining)
	assert.Contains(t, testWords, first.Hint)

	// same (empty) history, same solver: served from the cache
	rec = do(t, s, http.MethodGet, "/hint?game_id="+b.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[hintRes](t, rec)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Hint, second.Hint)

	// different solver, different key
	rec = do(t, s, http.MethodGet, "/hint?solver=minimax&game_id="+b.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	third := decode[hintRes](t, rec)
	assert.False(t, third.Cached)
	assert.Equal(t, "minimax", third.SolverType)

	// the solver switch sticks for the session
	rec = do(t, s, http.MethodGet, "/hint?game_id="+b.GameID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "minimax", decode[hintRes](t, rec).SolverType)
}

func TestHintNeverRepeatsAGuess(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "fuzzy", Solver: "naive"})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		rec := do(t, s, http.MethodGet, "/hint?game_id="+g.GameID, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		h := decode[hintRes](t, rec)
		assert.False(t, seen[h.Hint], "hint %q repeats a guess", h.Hint)
		seen[h.Hint] = true

		rec = do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: h.Hint})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		if decode[guessRes](t, rec).State != "playing" {
			break
		}
	}
}

func TestHintErrors(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "react"})

	rec := do(t, s, http.MethodGet, "/hint?game_id=missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/hint?solver=oracle&game_id="+g.GameID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unknown_solver"}`, rec.Body.String())

	do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: "react"})
	rec = do(t, s, http.MethodGet, "/hint?game_id="+g.GameID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMirrorGame(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "mouth", Solver: "mcts"})
	do(t, s, http.MethodPost, "/guess", guessReq{GameID: g.GameID, Guess: "slate"})

	rec := do(t, s, http.MethodPost, "/mirrorgame", mirrorReq{GameID: g.GameID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	m := decode[gameRes](t, rec)
	assert.NotEqual(t, g.GameID, m.GameID)
	assert.Equal(t, "mcts", m.SolverType, "inherits the active solver")

	rec = do(t, s, http.MethodPost, "/guess", guessReq{GameID: m.GameID, Guess: "mouth"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[guessRes](t, rec)
	assert.EqualValues(t, "won", res.State)
	assert.Equal(t, 1, res.Guesses)

	rec = do(t, s, http.MethodPost, "/mirrorgame", mirrorReq{GameID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSolversListing(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/solvers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[struct {
		Solvers []struct {
			ID string `json:"id"`
		} `json:"solvers"`
		Default string `json:"default"`
	}](t, rec)
	require.Len(t, res.Solvers, 4)
	assert.Equal(t, "greedy", res.Default)
}

func TestDebugWords(t *testing.T) {
	s := newTestServer(t)
	newGame(t, s, newGameReq{})
	rec := do(t, s, http.MethodGet, "/debug/words", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dictionary":8,"answers":8,"sessions":1}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	g := newGame(t, s, newGameReq{Target: "react"})
	do(t, s, http.MethodGet, "/hint?game_id="+g.GameID, nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wordle_games_started_total")
	assert.Contains(t, rec.Body.String(), "wordle_hints_total")
}
