// internal/feedback/memo.go
//
// Bounded LRU memo over Compute, shared by every solver in a process.

package feedback

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize bounds the memo when no size is configured.
const DefaultMemoSize = 1 << 20

type memoKey struct {
	guess, target string
}

// Memo is a bounded LRU cache in front of Compute, keyed by (guess, target).
// The key space grows with the square of the dictionary, hence the bound.
// A Memo is owned by whoever constructs it and handed to solvers explicitly.
// It is safe for concurrent use.
type Memo struct {
	cache  *lru.Cache[memoKey, Vector]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo returns a memo holding at most size entries.
func NewMemo(size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	c, err := lru.New[memoKey, Vector](size)
	if err != nil {
		return nil, fmt.Errorf("feedback: new memo: %w", err)
	}
	return &Memo{cache: c}, nil
}

// Score implements Scorer.
func (m *Memo) Score(guess, target string) Vector {
	k := memoKey{guess, target}
	if v, ok := m.cache.Get(k); ok {
		m.hits.Add(1)
		return v
	}
	m.misses.Add(1)
	v := Compute(guess, target)
	m.cache.Add(k, v)
	return v
}

// MemoStats is a point-in-time view of memo usage.
type MemoStats struct {
	Size   int
	Hits   int64
	Misses int64
}

// Stats reports entry count and hit/miss counters.
func (m *Memo) Stats() MemoStats {
	return MemoStats{Size: m.cache.Len(), Hits: m.hits.Load(), Misses: m.misses.Load()}
}
