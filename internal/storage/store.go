// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/hisab/internal/models"
)

var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt is returned when a stored value exists but cannot be decoded.
	ErrCorrupt = errors.New("corrupt stored value")
)

// LocalStore is the on-device key-value persistence of named collections.
// Writes are synchronous from the caller's perspective.
type LocalStore interface {
	// Load returns the raw value stored under key.
	// A missing key is not an error: Load returns nil, nil.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
}

// RemoteStore is the per-user document store. Writes are full-replace: every
// write overwrites all fields of the document.
type RemoteStore interface {
	// Read returns the user's snapshot, or nil, nil when no document exists.
	Read(ctx context.Context, userID string) (*models.Snapshot, error)

	// Write replaces the user's document with snap.
	Write(ctx context.Context, userID string, snap models.Snapshot) error
}

// UserStore defines user persistence operations for the identity server.
type UserStore interface {
	// CreateUser persists a new user. It fails if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
