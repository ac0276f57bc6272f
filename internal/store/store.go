// Package store persists game sessions for as long as a player keeps playing.
// Implementations are backed by memory or SQLite; neither keeps scores once a
// session is purged.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/colorquiz/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("store: session not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get returns a copy of the session with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Update loads the session, applies fn and saves the result atomically.
	// If fn returns an error nothing is saved and that error is returned.
	Update(ctx context.Context, id string, fn func(*game.Session) error) (*game.Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// PurgeIdle removes sessions not updated since before and returns how many.
	PurgeIdle(ctx context.Context, before time.Time) (int, error)

	// Close releases resources held by the store.
	Close() error
}
