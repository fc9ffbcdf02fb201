// internal/solver/cached.go
//
// LRU decorator that remembers guesses per candidate set.

package solver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps a deterministic Solver and remembers its choice per frozen
// candidate set. Results of cancelled searches are not stored.
type Cached struct {
	inner  Solver
	cache  *lru.Cache[[sha256.Size]byte, string]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps inner with an LRU of at most size candidate sets.
func NewCached(inner Solver, size int) (*Cached, error) {
	c, err := lru.New[[sha256.Size]byte, string](size)
	if err != nil {
		return nil, fmt.Errorf("solver: cache for %s: %w", inner.Name(), err)
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) SelectGuess(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrEmptyCandidates
	}
	key := digest(candidates)
	if g, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return g, nil
	}
	c.misses.Add(1)
	g, err := c.inner.SelectGuess(ctx, candidates)
	if err != nil {
		return "", err
	}
	if ctx.Err() == nil {
		c.cache.Add(key, g)
	}
	return g, nil
}

// Stats returns (hits, misses).
func (c *Cached) Stats() (int64, int64) { return c.hits.Load(), c.misses.Load() }
