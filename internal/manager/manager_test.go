package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/solver"
	"github.com/sebytremblay/wordle-bot/internal/words"
)

func newManager(t *testing.T, cfg Config) (*Manager, *words.Dictionary) {
	t.Helper()
	dict, err := words.New([]string{"crate", "tacet", "react", "cater", "trace", "fuzzy", "mouth"})
	require.NoError(t, err)
	memo, err := feedback.NewMemo(1024)
	require.NoError(t, err)
	cfg.Seed = 7
	cfg.MCTS.Simulations = 40
	return New(dict, words.BuildOrder(dict.Words()), memo, cfg), dict
}

func TestParseID(t *testing.T) {
	cases := []struct {
		in, key, kind string
		param         int
		ok            bool
	}{
		{"greedy", "greedy", Greedy, 0, true},
		{" MCTS ", "mcts", MCTS, 0, true},
		{"minimax_2", "minimax_2", Minimax, 2, true},
		{"mcts_500", "mcts_500", MCTS, 500, true},
		{"greedy_2", "", "", 0, false},
		{"minimax_x", "", "", 0, false},
		{"minimax_0", "", "", 0, false},
		{"entropy", "", "", 0, false},
		{"", "", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			key, kind, param, err := parseID(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrUnknownSolverType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.param, param)
		})
	}
}

func TestRandomized(t *testing.T) {
	for _, id := range []string{"naive", "mcts", "MCTS_300"} {
		assert.True(t, Randomized(id), id)
	}
	for _, id := range []string{"greedy", "minimax_2", "oracle", ""} {
		assert.False(t, Randomized(id), id)
	}
}

func TestSolverIsLazyAndReused(t *testing.T) {
	m, _ := newManager(t, DefaultConfig())
	_, ok := m.Active()
	assert.False(t, ok)

	a, id, err := m.Solver("Minimax_2")
	require.NoError(t, err)
	assert.Equal(t, "minimax_2", id)
	b, _, err := m.Solver("minimax_2")
	require.NoError(t, err)
	assert.Same(t, a, b)

	mm, ok := a.(*solver.Minimax)
	require.True(t, ok)
	assert.Equal(t, 2, mm.Config().Depth)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "minimax_2", active)
}

func TestUnknownSolver(t *testing.T) {
	m, dict := newManager(t, DefaultConfig())
	_, _, err := m.Solver("oracle")
	assert.ErrorIs(t, err, ErrUnknownSolverType)
	_, err = m.Hint(context.Background(), dict.Words(), nil, "oracle")
	assert.ErrorIs(t, err, ErrUnknownSolverType)
}

func TestHintDefaultsThenActive(t *testing.T) {
	m, dict := newManager(t, DefaultConfig())
	ctx := context.Background()

	h, err := m.Hint(ctx, dict.Words(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, Greedy, h.SolverID)
	assert.Equal(t, dict.Len(), h.Remaining)

	_, err = m.Hint(ctx, dict.Words(), nil, "mcts_10")
	require.NoError(t, err)
	h, err = m.Hint(ctx, dict.Words(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "mcts_10", h.SolverID)
}

func TestHintNeverRepeats(t *testing.T) {
	ctx := context.Background()
	for _, id := range []string{Naive, Greedy, Minimax, MCTS} {
		t.Run(id, func(t *testing.T) {
			m, dict := newManager(t, DefaultConfig())
			all := dict.Words()
			var previous []string
			for range len(all) {
				h, err := m.Hint(ctx, all, previous, id)
				require.NoError(t, err)
				assert.NotContains(t, previous, h.Word)
				previous = append(previous, h.Word)
			}
			assert.ElementsMatch(t, all, previous)

			// everything guessed: the solver's own choice comes back
			h, err := m.Hint(ctx, all, previous, id)
			require.NoError(t, err)
			assert.Contains(t, all, h.Word)
		})
	}
}

func TestHintFallsBackToDictionary(t *testing.T) {
	m, _ := newManager(t, DefaultConfig())
	h, err := m.Hint(context.Background(), []string{"react"}, []string{"react", "crate"}, Greedy)
	require.NoError(t, err)
	assert.Equal(t, "tacet", h.Word)
	assert.Equal(t, 1, h.Remaining)
}

func TestHintEmptyCandidates(t *testing.T) {
	m, _ := newManager(t, DefaultConfig())
	_, err := m.Hint(context.Background(), nil, nil, Greedy)
	assert.ErrorIs(t, err, solver.ErrEmptyCandidates)
}

func TestResultCacheWrapsDeterministicSolvers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResultCache = 16
	m, _ := newManager(t, cfg)

	g, _, err := m.Solver(Greedy)
	require.NoError(t, err)
	_, ok := g.(*solver.Cached)
	assert.True(t, ok)

	n, _, err := m.Solver(Naive)
	require.NoError(t, err)
	_, ok = n.(*solver.Cached)
	assert.False(t, ok)
}

func TestSolversListing(t *testing.T) {
	m, _ := newManager(t, DefaultConfig())
	infos := m.Solvers()
	require.Len(t, infos, 4)
	ids := []string{infos[0].ID, infos[1].ID, infos[2].ID, infos[3].ID}
	assert.Equal(t, []string{Naive, Greedy, Minimax, MCTS}, ids)
}

func TestResolve(t *testing.T) {
	m, _ := newManager(t, DefaultConfig())
	id, err := m.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Greedy, id)

	id, err = m.Resolve("MCTS_20")
	require.NoError(t, err)
	assert.Equal(t, "mcts_20", id)

	id, err = m.Resolve("  ")
	require.NoError(t, err)
	assert.Equal(t, "mcts_20", id)

	_, err = m.Resolve("bogus")
	assert.ErrorIs(t, err, ErrUnknownSolverType)
	assert.Equal(t, Greedy, m.Default())
}
