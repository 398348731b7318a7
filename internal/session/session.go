// Package session is the device-side identity provider. It keeps the signed-in
// identity in the local store and notifies subscribers with the user ID, or ""
// after sign-out, whenever the identity changes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/hisab/internal/storage"
	"github.com/mmynk/hisab/pkg/api"
)

// storeKey is the local-store key holding the persisted session.
const storeKey = "session"

// ErrNoSession is returned by operations that need a signed-in identity.
var ErrNoSession = errors.New("not signed in")

// Authenticator obtains tokens from the identity server.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.User, string, error)
	Register(ctx context.Context, email, displayName, password string) (*api.User, string, error)
	SignInAnonymously(ctx context.Context) (*api.User, string, error)
}

// TokenSink receives the bearer token for outgoing calls.
type TokenSink interface {
	SetToken(token string)
}

// Session is a signed-in identity.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Anonymous   bool   `json:"anonymous,omitempty"`
	Token       string `json:"token"`
}

// Listener is called with the new user ID after every identity change.
// It runs synchronously on the goroutine that caused the change.
type Listener func(ctx context.Context, userID string)

// Manager owns the current session.
type Manager struct {
	store  storage.LocalStore
	auth   Authenticator
	tokens TokenSink
	logger *slog.Logger

	mu        sync.Mutex
	current   *Session
	listeners []Listener
}

// NewManager creates a manager with no session. Call Restore to pick up a
// persisted one.
func NewManager(store storage.LocalStore, auth Authenticator, tokens TokenSink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		auth:   auth,
		tokens: tokens,
		logger: logger,
	}
}

// Subscribe registers fn for identity changes.
func (m *Manager) Subscribe(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Current returns a copy of the session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// UserID returns the signed-in user ID or "".
func (m *Manager) UserID() string {
	if s := m.Current(); s != nil {
		return s.UserID
	}
	return ""
}

// Restore loads the persisted session and emits it. It returns nil, nil when
// no session was saved.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	raw, err := m.store.Load(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if raw == nil || string(raw) == "null" {
		m.emit(ctx, "")
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || s.UserID == "" {
		m.logger.Warn("Discarding unreadable session", "error", err)
		if err := m.clear(ctx); err != nil {
			return nil, err
		}
		m.emit(ctx, "")
		return nil, nil
	}

	m.set(&s)
	m.logger.Info("Session restored", "user_id", s.UserID, "anonymous", s.Anonymous)
	m.emit(ctx, s.UserID)
	return m.Current(), nil
}

// SignIn authenticates with email and password.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, user, token)
}

// Register creates an account and signs in to it.
func (m *Manager) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	user, token, err := m.auth.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, user, token)
}

// SignInAnonymously creates a credential-less identity.
func (m *Manager) SignInAnonymously(ctx context.Context) (*Session, error) {
	user, token, err := m.auth.SignInAnonymously(ctx)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, user, token)
}

// SignOut forgets the session and emits "".
func (m *Manager) SignOut(ctx context.Context) error {
	if m.Current() == nil {
		return ErrNoSession
	}
	if err := m.clear(ctx); err != nil {
		return err
	}
	m.set(nil)
	m.logger.Info("Signed out")
	m.emit(ctx, "")
	return nil
}

func (m *Manager) establish(ctx context.Context, user *api.User, token string) (*Session, error) {
	s := &Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Anonymous:   user.Anonymous,
		Token:       token,
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Save(ctx, storeKey, raw); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.set(s)
	m.logger.Info("Signed in", "user_id", s.UserID, "anonymous", s.Anonymous)
	m.emit(ctx, s.UserID)
	return m.Current(), nil
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	token := ""
	if s != nil {
		token = s.Token
	}
	if m.tokens != nil {
		m.tokens.SetToken(token)
	}
}

func (m *Manager) clear(ctx context.Context) error {
	if err := m.store.Save(ctx, storeKey, []byte("null")); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) emit(ctx context.Context, userID string) {
	m.mu.Lock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx, userID)
	}
}
