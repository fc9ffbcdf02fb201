// internal/manager/manager.go
//
// Solver registry and hint dispatcher.
// Responsibilities:
//   - Map solver ids ("greedy", "minimax_2", "mcts_500", ...) to configured
//     solver instances, constructed lazily and reused.
//   - Track the active solver for a session.
//   - Produce hints that never repeat an earlier guess when an unguessed
//     alternative exists.
//
// Notes:
//   - A Manager is cheap; the HTTP layer keeps one per game session and the
//     benchmark keeps one per worker.
//   - The dictionary, heuristic order and feedback scorer are shared
//     read-only collaborators.
package manager

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/solver"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

// ErrUnknownSolverType is returned for ids that name no registered solver.
var ErrUnknownSolverType = errors.New("manager: unknown solver type")

// Solver kinds.
const (
	Naive   = "naive"
	Greedy  = "greedy"
	Minimax = "minimax"
	MCTS    = "mcts"
)

// Config carries solver hyperparameters.
type Config struct {
	Default string `yaml:"default"`
	Seed    int64  `yaml:"seed"`
	// ResultCache wraps deterministic solvers in a result cache of this size; 0 disables.
	ResultCache int                  `yaml:"result_cache"`
	Minimax     solver.MinimaxConfig `yaml:"minimax"`
	MCTS        solver.MCTSConfig    `yaml:"mcts"`
}

// DefaultConfig returns greedy as default with stock search parameters.
func DefaultConfig() Config {
	return Config{
		Default: Greedy,
		Minimax: solver.DefaultMinimaxConfig(),
		MCTS:    solver.DefaultMCTSConfig(),
	}
}

// Info describes a registered solver kind.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Hint is the result of Manager.Hint.
type Hint struct {
	Word      string `json:"hint"`
	SolverID  string `json:"solver_type"`
	Remaining int    `json:"remaining"`
}

// Manager resolves solver ids and hands out hints.
type Manager struct {
	dict   *words.Dictionary
	order  *words.Order
	scorer feedback.Scorer
	cfg    Config

	mu      sync.Mutex
	solvers map[string]solver.Solver
	active  string
}

// New returns a Manager with no active solver.
func New(dict *words.Dictionary, order *words.Order, sc feedback.Scorer, cfg Config) *Manager {
	if cfg.Default == "" {
		cfg.Default = Greedy
	}
	return &Manager{
		dict:    dict,
		order:   order,
		scorer:  sc,
		cfg:     cfg,
		solvers: make(map[string]solver.Solver),
	}
}

// Solvers lists the registered kinds with their configured parameters.
func (m *Manager) Solvers() []Info {
	return []Info{
		{ID: Naive, Name: "Naive", Description: "Uniform random candidate"},
		{ID: Greedy, Name: "Greedy", Description: "Maximises expected information gain"},
		{ID: Minimax, Name: "Minimax", Description: fmt.Sprintf("Minimises worst-case remaining words (depth %d, use minimax_<depth>)", m.cfg.Minimax.Depth)},
		{ID: MCTS, Name: "MCTS", Description: fmt.Sprintf("Monte Carlo tree search (%d simulations, use mcts_<n>)", m.cfg.MCTS.Simulations)},
	}
}

// Active returns the id of the active solver, if any.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// Solver resolves id, constructing the solver on first use, and makes it active.
// It returns the canonical id alongside the solver.
func (m *Manager) Solver(id string) (solver.Solver, string, error) {
	key, kind, param, err := parseID(id)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.solvers[key]
	if !ok {
		s, err = m.build(kind, param)
		if err != nil {
			return nil, "", fmt.Errorf("manager: build %s: %w", key, err)
		}
		m.solvers[key] = s
		log.Debug().Str("solver", key).Msg("solver constructed")
	}
	m.active = key
	return s, key, nil
}

// Hint asks the requested (or active, or default) solver for a guess and
// swaps it for an unguessed word if it repeats one of previous.
func (m *Manager) Hint(ctx context.Context, candidates, previous []string, id string) (Hint, error) {
	s, key, err := m.Solver(m.pick(id))
	if err != nil {
		return Hint{}, err
	}
	word, err := s.SelectGuess(ctx, candidates)
	if err != nil {
		return Hint{}, fmt.Errorf("manager: %s: %w", key, err)
	}
	if alt := m.avoidRepeat(word, candidates, previous); alt != word {
		log.Debug().Str("solver", key).Str("repeat", word).Str("substitute", alt).Msg("hint repeated a guess")
		word = alt
	}
	return Hint{Word: word, SolverID: key, Remaining: len(candidates)}, nil
}

// Resolve returns the canonical id Hint would use for id and makes it active.
// An empty id means the active solver, or the default when none is active.
func (m *Manager) Resolve(id string) (string, error) {
	_, key, err := m.Solver(m.pick(id))
	return key, err
}

func (m *Manager) pick(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	if active, ok := m.Active(); ok {
		return active
	}
	return m.cfg.Default
}

// Default returns the configured default solver id.
func (m *Manager) Default() string { return m.cfg.Default }

// avoidRepeat returns word unless it was already guessed. Then the first
// unguessed candidate is used, then the first unguessed dictionary word.
func (m *Manager) avoidRepeat(word string, candidates, previous []string) string {
	if len(previous) == 0 {
		return word
	}
	seen := make(map[string]struct{}, len(previous))
	for _, p := range previous {
		seen[p] = struct{}{}
	}
	if _, dup := seen[word]; !dup {
		return word
	}
	for _, c := range candidates {
		if _, dup := seen[c]; !dup {
			return c
		}
	}
	if m.dict != nil {
		for i := 0; i < m.dict.Len(); i++ {
			if w := m.dict.At(i); !contains(seen, w) {
				return w
			}
		}
	}
	return word
}

func contains(set map[string]struct{}, w string) bool {
	_, ok := set[w]
	return ok
}

func (m *Manager) build(kind string, param int) (solver.Solver, error) {
	var s solver.Solver
	switch kind {
	case Naive:
		return solver.NewNaive(m.cfg.Seed), nil
	case Greedy:
		s = solver.NewGreedy(m.scorer)
	case Minimax:
		c := m.cfg.Minimax
		if param > 0 {
			c.Depth = param
		}
		mm, err := solver.NewMinimax(c, m.order, m.scorer)
		if err != nil {
			return nil, err
		}
		s = mm
	case MCTS:
		c := m.cfg.MCTS
		if param > 0 {
			c.Simulations = param
		}
		if c.Seed == 0 {
			c.Seed = m.cfg.Seed
		}
		return solver.NewMCTS(c, m.order, m.scorer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolverType, kind)
	}
	if m.cfg.ResultCache > 0 {
		return solver.NewCached(s, m.cfg.ResultCache)
	}
	return s, nil
}

// Randomized reports whether id names a solver that draws from a seed, so
// two instances built from the same Config only agree when seeded alike.
func Randomized(id string) bool {
	_, kind, _, err := parseID(id)
	return err == nil && (kind == Naive || kind == MCTS)
}

// parseID normalises id into (key, kind, parameter). Minimax and MCTS accept
// a numeric suffix: depth and simulation count respectively.
func parseID(id string) (key, kind string, param int, err error) {
	key = strings.ToLower(strings.TrimSpace(id))
	kind = key
	if i := strings.LastIndexByte(key, '_'); i > 0 {
		kind = key[:i]
		param, err = strconv.Atoi(key[i+1:])
		if err != nil || param < 1 || (kind != Minimax && kind != MCTS) {
			return "", "", 0, fmt.Errorf("%w: %q", ErrUnknownSolverType, id)
		}
	}
	switch kind {
	case Naive, Greedy, Minimax, MCTS:
		return key, kind, param, nil
	}
	return "", "", 0, fmt.Errorf("%w: %q", ErrUnknownSolverType, id)
}
