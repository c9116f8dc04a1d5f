// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for ephemeral sessions in development/testing, or when durability is
// not required.
//
// Characteristics:
//   - Stores game.State snapshots keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex          // guards states map
	states map[string]game.State // keyed by session ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{states: make(map[string]game.State)}
}

// Save snapshots the game into the map.
func (m *memory) Save(ctx context.Context, sessionID string, g *game.Game) error {
	s := g.State()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[sessionID] = s
	return nil
}

// Get restores a fresh game from the stored snapshot.
func (m *memory) Get(ctx context.Context, sessionID string) (*game.Game, error) {
	m.mu.RLock()
	s, ok := m.states[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return game.Restore(s)
}

// Delete drops the session's snapshot.
func (m *memory) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

func (m *memory) Close() error { return nil }
