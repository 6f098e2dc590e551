// Package store persists answer stores between collection sessions so a
// partially answered or previously completed run can be resumed or re-edited
// later. A Host is the storage backend; a Codec is the wire form answers are
// stored in.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Load when no answers exist for the session.
var ErrNotFound = errors.New("store: session not found")

// Host is a storage backend for serialized answer stores, keyed by session
// ID. Implementations must be safe for concurrent use.
type Host interface {
	// Save persists data under the session ID, replacing any previous data.
	Save(ctx context.Context, sessionID string, data []byte) error

	// Load retrieves the data saved under the session ID. Returns
	// ErrNotFound if the session does not exist or has expired.
	Load(ctx context.Context, sessionID string) ([]byte, error)

	// Delete removes the session's data. Deleting an absent session is not
	// an error.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}

// Session metadata kept alongside the answers.
type Item struct {
	Data      []byte
	CreatedAt time.Time
	ExpiresAt *time.Time // nil means no expiration
}

// IsExpired reports whether the item's deadline has passed.
func (it *Item) IsExpired() bool {
	return it.ExpiresAt != nil && time.Now().After(*it.ExpiresAt)
}

// NewSessionID returns a fresh, unguessable session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
