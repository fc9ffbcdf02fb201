// internal/hintcache/memory.go

package hintcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is a process-local LRU hint cache.
type Memory struct {
	cache *lru.Cache[Key, string]
}

// NewMemory returns a cache holding at most size hints.
func NewMemory(size int) (*Memory, error) {
	c, err := lru.New[Key, string](size)
	if err != nil {
		return nil, fmt.Errorf("hintcache: memory: %w", err)
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) Get(_ context.Context, k Key) (string, bool, error) {
	h, ok := m.cache.Get(k)
	return h, ok, nil
}

func (m *Memory) Put(_ context.Context, k Key, hint string) error {
	m.cache.Add(k, hint)
	return nil
}

func (m *Memory) Close() error {
	m.cache.Purge()
	return nil
}

// Len reports the number of cached hints.
func (m *Memory) Len() int { return m.cache.Len() }
