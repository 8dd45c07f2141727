// Package session stores browser sessions created at login. A session maps
// an opaque id carried in a cookie to a user id; roles are never cached in
// the session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store persists sessions.
type Store interface {
	// Create starts a session for userID that expires after ttl and returns its id.
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)

	// Get returns the user id of a live session.
	Get(ctx context.Context, id string) (uuid.UUID, error)

	// Delete ends a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

func newID() string {
	return uuid.NewString()
}
