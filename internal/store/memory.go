// internal/store/memory.go
//
// In-memory session store.
// A session pairs one game with the solver manager that serves its hints,
// so the active solver is tracked per game.
//
// Characteristics:
//   - Sessions keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex; handlers lock it while touching the game.
//   - Save and Get stamp the session as seen; Sweep evicts sessions idle too long.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sebytremblay/wordle-bot/internal/game"
	"github.com/sebytremblay/wordle-bot/internal/manager"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("store: session not found")

// Session is one game plus its solver manager.
type Session struct {
	mu      sync.Mutex
	seen    atomic.Int64 // unix nanos of the last Save or Get
	Game    *game.Game
	Solvers *manager.Manager
}

// NewSession pairs g with m.
func NewSession(g *game.Game, m *manager.Manager) *Session {
	return &Session{Game: g, Solvers: m}
}

// Lock serialises access to the session's game.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// LastSeen is when the session was last saved or fetched.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.seen.Load()) }

func (s *Session) touch(now time.Time) { s.seen.Store(now.UnixNano()) }

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete forgets a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// IdleSince lists the IDs of sessions last seen before t.
	IdleSince(t time.Time) []string

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	s.touch(time.Now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Game.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		s.touch(time.Now())
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) IdleSince(t time.Time) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(t) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
