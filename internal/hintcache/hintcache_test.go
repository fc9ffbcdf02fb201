package hintcache

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebytremblay/wordle-bot/internal/feedback"
	"github.com/sebytremblay/wordle-bot/internal/game"
)

func history(guesses ...string) []game.Turn {
	var out []game.Turn
	for _, g := range guesses {
		out = append(out, game.Turn{Guess: g, Feedback: feedback.Compute(g, "react")})
	}
	return out
}

func TestStateHash(t *testing.T) {
	a, err := StateHash(history("crate", "trace"))
	require.NoError(t, err)
	b, err := StateHash(history("crate", "trace"))
	require.NoError(t, err)
	c, err := StateHash(history("trace", "crate"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	empty, err := StateHash(nil)
	require.NoError(t, err)
	none, err := StateHash([]game.Turn{})
	require.NoError(t, err)
	assert.Equal(t, empty, none)
}

func backends(t *testing.T) map[string]Cache {
	t.Helper()
	mem, err := NewMemory(16)
	require.NoError(t, err)
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "hints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Cache{"memory": mem, "sqlite": db}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			k := Key{StateHash: "abc", SolverID: "greedy"}
			_, ok, err := c.Get(ctx, k)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.Put(ctx, k, "crate"))
			require.NoError(t, c.Put(ctx, k, "trace"))
			h, ok, err := c.Get(ctx, k)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "trace", h)

			_, ok, err = c.Get(ctx, Key{StateHash: "abc", SolverID: "mcts"})
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			calls := 0
			compute := func(context.Context) (string, error) {
				calls++
				return "slate", nil
			}
			k := Key{StateHash: "h", SolverID: "greedy"}

			h, cached, err := GetOrCompute(ctx, c, k, compute)
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, "slate", h)

			h, cached, err = GetOrCompute(ctx, c, k, compute)
			require.NoError(t, err)
			assert.True(t, cached)
			assert.Equal(t, "slate", h)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestGetOrComputeSkipsHintsPastDeadline(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			k := Key{StateHash: "late", SolverID: "minimax"}

			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
			defer cancel()
			h, cached, err := GetOrCompute(ctx, c, k, func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "degraded", nil
			})
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, "degraded", h)

			h, cached, err = GetOrCompute(context.Background(), c, k, func(context.Context) (string, error) {
				return "full", nil
			})
			require.NoError(t, err)
			assert.False(t, cached)
			assert.Equal(t, "full", h)

			h, cached, err = GetOrCompute(context.Background(), c, k, func(context.Context) (string, error) {
				return "other", nil
			})
			require.NoError(t, err)
			assert.True(t, cached)
			assert.Equal(t, "full", h)
		})
	}
}

func TestGetOrComputeWithoutCache(t *testing.T) {
	h, cached, err := GetOrCompute(context.Background(), nil, Key{}, func(context.Context) (string, error) {
		return "crane", nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "crane", h)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, Key) (string, bool, error) {
	return "", false, errors.New("down")
}
func (brokenCache) Put(context.Context, Key, string) error { return errors.New("down") }
func (brokenCache) Close() error                           { return nil }

func TestGetOrComputeBypassesBrokenCache(t *testing.T) {
	h, cached, err := GetOrCompute(context.Background(), brokenCache{}, Key{}, func(context.Context) (string, error) {
		return "crane", nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "crane", h)

	boom := errors.New("boom")
	_, _, err = GetOrCompute(context.Background(), brokenCache{}, Key{}, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hints.db")
	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, Key{"h", "greedy"}, "crate"))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	h, ok, err := db.Get(ctx, Key{"h", "greedy"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "crate", h)

	files, err := fs.Glob(migrations, "sql/*.sql")
	require.NoError(t, err)
	var applied int
	require.NoError(t, db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM _migrations`).Scan(&applied))
	assert.Equal(t, len(files), applied)

	n, err := db.Prune(ctx, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Put(ctx, Key{"h", "naive"}, "crate"))
	_, ok, err := db.Get(ctx, Key{"h", "naive"})
	require.NoError(t, err)
	assert.True(t, ok)
}
