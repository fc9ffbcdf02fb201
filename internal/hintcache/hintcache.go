// internal/hintcache/hintcache.go
//
// Hint cache shared by the HTTP layer.
// Responsibilities:
//   - Derive a stable key from a game's guess history and the solver id.
//   - Look hints up before asking a solver, store them afterwards.
//   - Degrade to direct computation when the backing store fails.
//
// Backends: an in-process LRU (memory.go) and SQLite (sqlite.go).
package hintcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sebytremblay/wordle-bot/internal/game"
)

// Key identifies a cached hint.
type Key struct {
	StateHash string
	SolverID  string
}

// Cache stores hints by Key.
type Cache interface {
	Get(ctx context.Context, k Key) (hint string, ok bool, err error)
	Put(ctx context.Context, k Key, hint string) error
	Close() error
}

// StateHash is the hex SHA-256 of the JSON-encoded history. Equal histories
// over the same dictionary leave the same candidates, so they share hints.
func StateHash(history []game.Turn) (string, error) {
	if history == nil {
		history = []game.Turn{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("hintcache: encode history: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// GetOrCompute returns the cached hint for k, or runs compute and stores its
// result. A nil cache always computes. Cache errors are logged and bypassed;
// only compute errors are returned.
func GetOrCompute(ctx context.Context, c Cache, k Key, compute func(context.Context) (string, error)) (string, bool, error) {
	if c == nil {
		h, err := compute(ctx)
		return h, false, err
	}

	h, ok, err := c.Get(ctx, k)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("solver", k.SolverID).Msg("hint cache read failed; computing directly")
	case ok:
		return h, true, nil
	}

	h, err = compute(ctx)
	if err != nil {
		return "", false, err
	}
	// A hint returned after the deadline is a degraded answer; serve it but
	// leave the slot free for a full computation.
	if ctx.Err() != nil {
		return h, false, nil
	}
	if perr := c.Put(ctx, k, h); perr != nil {
		log.Warn().Err(perr).Str("solver", k.SolverID).Msg("hint cache write failed")
	}
	return h, false, nil
}
