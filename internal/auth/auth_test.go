package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/storage/sqlite"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := models.NewAnonymousUser()

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID)
	}
	if !claims.Anonymous {
		t.Error("expected anonymous claim")
	}
}

func TestJWTRejects(t *testing.T) {
	user := models.NewUser("a@example.com", "A", "hash")

	expired, _ := NewJWTManager("s", -time.Minute).Generate(user)
	if _, err := NewJWTManager("s", time.Hour).Validate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}

	other, _ := NewJWTManager("other", time.Hour).Generate(user)
	if _, err := NewJWTManager("s", time.Hour).Validate(other); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token: err = %v, want ErrInvalidToken", err)
	}

	if _, err := NewJWTManager("s", time.Hour).Validate("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}
}

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(store)
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	user, err := a.Register(ctx, " Rina@Example.com ", "Rina", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "rina@example.com" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}

	if _, err := a.Register(ctx, "rina@example.com", "Rina", "another-pass"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate: err = %v, want ErrEmailExists", err)
	}
	if _, err := a.Register(ctx, "new@example.com", "N", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak: err = %v, want ErrWeakPassword", err)
	}
	if _, err := a.Register(ctx, "not-an-email", "N", "long-enough"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email: err = %v, want ErrInvalidEmail", err)
	}

	got, err := a.Authenticate(ctx, "RINA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}

	if _, err := a.Authenticate(ctx, "rina@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "whatever1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestRegisterAnonymous(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	first, err := a.RegisterAnonymous(ctx)
	if err != nil {
		t.Fatalf("RegisterAnonymous failed: %v", err)
	}
	second, err := a.RegisterAnonymous(ctx)
	if err != nil {
		t.Fatalf("second RegisterAnonymous failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("anonymous users must get distinct ids")
	}

	got, err := a.Lookup(ctx, first.ID)
	if err != nil || got == nil || !got.Anonymous {
		t.Errorf("Lookup = %+v, %v; want anonymous user", got, err)
	}
}
