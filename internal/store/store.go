// apps/go-server/internal/store/store.go
//
// Persistence interface for per-session games.
//
// A session holds exactly one game. Implementations keep game.State snapshots,
// never live *game.Game values, so every Get hands back a freshly restored
// game that the caller owns outright.

package store

import (
	"context"
	"errors"

	"github.com/robalobadob/checkers/apps/go-server/internal/game"
)

// ErrNotFound is returned by Get when no game is stored for the session.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
// Implementations are backed by memory (memory.go) or SQLite (sqlite.go).
type Store interface {
	// Save persists or replaces the game for a session.
	Save(ctx context.Context, sessionID string, g *game.Game) error

	// Get restores the game for a session.
	// Returns ErrNotFound if the session has no game.
	Get(ctx context.Context, sessionID string) (*game.Game, error)

	// Delete removes a session's game. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Close releases any underlying resources.
	Close() error
}
