// internal/httpserver/server.go
//
// HTTP server wiring for the solver service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Game endpoints: POST /newgame, POST /guess, POST /mirrorgame.
//   - Solver endpoints: GET /hint, GET /solvers, GET /remaining-words.
//
// Notes:
//   - Every game session owns a solver manager, so the active solver is per game.
//   - Hints go through the hint cache keyed by the game's history hash.
//   - Hint computation is bounded by HintTimeout; solvers return their best
//     guess so far when the deadline hits.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sebytremblay/wordle-bot/internal/config"
	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/hintcache"
	"github.com/sebytremblay/wordle-bot/internal/manager"
	"github.com/sebytremblay/wordle-bot/internal/store"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config  config.Config
	Dict    *words.Dictionary
	Answers []string // targets for random and daily games; defaults to the dictionary
	Order   *words.Order
	Scorer  feedback.Scorer // shared feedback memo
	Store   store.Store
	Hints   hintcache.Cache // nil disables hint caching
}

// Server bundles router and dependencies.
type Server struct {
	r *chi.Mux
	Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if len(d.Answers) == 0 && d.Dict != nil {
		d.Answers = d.Dict.Words()
	}
	if d.Store == nil {
		d.Store = store.NewMemoryStore()
	}
	s := &Server{r: chi.NewRouter(), Deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                                     // add X-Request-ID
	s.r.Use(chimw.RealIP)                                        // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                                     // recover from panics
	s.r.Use(chimw.Timeout(d.Config.HintTimeout + 2*time.Second)) // bound handler time
	s.r.Use(jsonContentType)                                     // default JSON responses
	s.r.Use(cors(d.Config.ClientOrigin))                         // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service": "wordle-bot",
			"endpoints": []string{
				"/health", "POST /newgame", "POST /guess", "GET /hint",
				"GET /solvers", "GET /remaining-words", "POST /mirrorgame", "/metrics",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{
			"dictionary": s.Dict.Len(),
			"answers":    len(s.Answers),
			"sessions":   s.Store.Len(),
		})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	// --- game ---
	s.r.Post("/newgame", s.handleNewGame)
	s.r.Post("/guess", s.handleGuess)
	s.r.Post("/mirrorgame", s.handleMirrorGame)

	// --- solvers ---
	s.r.Get("/hint", s.handleHint)
	s.r.Get("/solvers", s.handleSolvers)
	s.r.Get("/remaining-words", s.handleRemainingWords)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newManager builds the per-session solver manager.
func (s *Server) newManager() *manager.Manager {
	return manager.New(s.Dict, s.Order, s.Scorer, s.Config.Solvers)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError sends {"error": msg} with the given status.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
