// Package app owns the application state and routes every user action through
// the same path: validate, mutate in memory, re-render, persist.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/session"
	"github.com/mmynk/hisab/internal/storage"
	"github.com/mmynk/hisab/internal/syncer"
	"github.com/mmynk/hisab/internal/view"
)

// ErrNotOpen is returned when an action runs before Open.
var ErrNotOpen = errors.New("app is not open")

// Deps are the collaborators of an App.
type Deps struct {
	Local   storage.LocalStore
	Remote  storage.RemoteStore
	Session *session.Manager

	Logger            *slog.Logger
	Metrics           *metrics.Sync // optional
	Timeout           time.Duration
	Now               func() time.Time
	AnonymousFallback bool

	// OnChange runs after every state or navigation change, with the lock held.
	OnChange func(v view.View)
}

// App is the single owned application-state object.
type App struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	engine   *syncer.Engine
	session  *session.Manager
	logger   *slog.Logger
	now      func() time.Time
	current  view.View
	fallback bool
	onChange func(view.View)

	noticeMu sync.Mutex
	notice   string
}

// New wires an App. Call Open before any action.
func New(d Deps) *App {
	a := &App{
		session:  d.Session,
		logger:   d.Logger,
		now:      d.Now,
		current:  view.Dashboard{},
		fallback: d.AnonymousFallback,
		onChange: d.OnChange,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}

	opts := []syncer.Option{
		syncer.WithLogger(a.logger),
		syncer.WithTimeout(d.Timeout),
		syncer.WithClock(a.now),
		syncer.WithErrorHandler(a.notify),
	}
	if d.Metrics != nil {
		opts = append(opts, syncer.WithMetrics(d.Metrics))
	}
	a.engine = syncer.New(d.Local, d.Remote, opts...)
	return a
}

// Open loads local state, runs the id migration, restores the session and
// bootstraps sync. Without a session it either creates an anonymous identity
// (when the fallback is enabled) or lands on the login screen.
func (a *App) Open(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.engine.LoadLocal(ctx)
	if err != nil {
		return fmt.Errorf("failed to load local data: %w", err)
	}
	a.ledger = ledger.FromSnapshot(snap, ledger.WithClock(a.now))
	if err := a.engine.SaveLocal(ctx, a.ledger.Snapshot()); err != nil {
		return fmt.Errorf("failed to save migrated data: %w", err)
	}

	a.session.Subscribe(a.onIdentity)
	s, err := a.session.Restore(ctx)
	if err != nil {
		return err
	}
	if s == nil && a.fallback {
		if _, err := a.session.SignInAnonymously(ctx); err != nil {
			a.logger.Warn("Anonymous sign-in failed, staying local", "error", err)
			a.notify(fmt.Errorf("anonymous sign-in failed: %w", err))
		}
	}
	if a.engine.State() == syncer.StateUnauthenticated {
		a.current = view.Login{}
	}
	a.changed()
	return nil
}

// onIdentity runs for every session event. Session events are only raised
// from App methods, so a.mu is already held.
func (a *App) onIdentity(ctx context.Context, userID string) {
	state := a.engine.Start(ctx, userID, a.ledger)
	a.logger.Debug("Identity changed", "user_id", userID, "state", state)
	if state == syncer.StateSynced {
		a.clearNotice()
	}
}

// Close waits for the in-flight remote write, if any.
func (a *App) Close() {
	a.engine.Wait()
}

// Snapshot returns a copy of the current state.
func (a *App) Snapshot() (models.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ledger == nil {
		return models.Snapshot{}, ErrNotOpen
	}
	return a.ledger.Snapshot(), nil
}

// Status describes the identity and sync state.
type Status struct {
	State     syncer.State
	UserID    string
	Email     string
	Anonymous bool
	Notice    string
}

// Status returns the current identity and sync state.
func (a *App) Status() Status {
	st := Status{State: a.engine.State(), Notice: a.Notice()}
	if s := a.session.Current(); s != nil {
		st.UserID, st.Email, st.Anonymous = s.UserID, s.Email, s.Anonymous
	}
	return st
}

// Resync re-runs the bootstrap for the current identity.
func (a *App) Resync(ctx context.Context) (syncer.State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ledger == nil {
		return syncer.StateUnauthenticated, ErrNotOpen
	}
	if a.session.UserID() == "" {
		return syncer.StateUnauthenticated, session.ErrNoSession
	}
	state := a.engine.Resync(ctx, a.ledger)
	if state == syncer.StateSynced {
		a.clearNotice()
	}
	a.changed()
	return state, nil
}

// SignIn signs in with email and password and bootstraps sync.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	return a.identity(func() error {
		_, err := a.session.SignIn(ctx, email, password)
		return err
	})
}

// Register creates an account, signs in and bootstraps sync.
func (a *App) Register(ctx context.Context, email, displayName, password string) error {
	return a.identity(func() error {
		_, err := a.session.Register(ctx, email, displayName, password)
		return err
	})
}

// SignInAnonymously creates an anonymous identity and bootstraps sync.
func (a *App) SignInAnonymously(ctx context.Context) error {
	return a.identity(func() error {
		_, err := a.session.SignInAnonymously(ctx)
		return err
	})
}

// SignOut forgets the identity. Local data stays on the device.
func (a *App) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.current = view.Login{}
	a.changed()
	return nil
}

func (a *App) identity(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ledger == nil {
		return ErrNotOpen
	}
	if err := fn(); err != nil {
		return err
	}
	if _, ok := a.current.(view.Login); ok {
		a.current = view.Dashboard{}
	}
	a.changed()
	return nil
}

// Navigate switches the current view.
func (a *App) Navigate(v view.View) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = v
	a.changed()
}

// Current returns the current view.
func (a *App) Current() view.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Render writes v, or the current view when v is nil.
func (a *App) Render(w io.Writer, v view.View) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ledger == nil {
		return ErrNotOpen
	}
	if v == nil {
		v = a.current
	}
	m := view.Model{
		Snapshot:  a.ledger.Snapshot(),
		Now:       a.now(),
		SyncState: a.engine.State().String(),
		Notice:    a.Notice(),
	}
	if s := a.session.Current(); s != nil {
		m.User = s.DisplayName
		if m.User == "" {
			m.User = s.Email
		}
	}
	return view.Render(w, v, m)
}

// Notice returns the latest non-blocking warning, e.g. a failed remote save.
func (a *App) Notice() string {
	a.noticeMu.Lock()
	defer a.noticeMu.Unlock()
	return a.notice
}

func (a *App) notify(err error) {
	a.noticeMu.Lock()
	defer a.noticeMu.Unlock()
	a.notice = err.Error()
}

func (a *App) clearNotice() {
	a.noticeMu.Lock()
	defer a.noticeMu.Unlock()
	a.notice = ""
}

func (a *App) changed() {
	if a.onChange != nil {
		a.onChange(a.current)
	}
}
