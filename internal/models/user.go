package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns one remote document.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	// It addresses the user's remote document.
	ID string

	// Email is the login address. Empty for anonymous users.
	Email string

	// DisplayName is shown in the profile view.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password. Empty for anonymous users.
	PasswordHash string

	// Anonymous marks an identity created without credentials.
	Anonymous bool

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a password user with a fresh ID.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewAnonymousUser creates a credential-less identity.
func NewAnonymousUser() *User {
	now := time.Now().Unix()
	return &User{
		ID:        uuid.New().String(),
		Anonymous: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
