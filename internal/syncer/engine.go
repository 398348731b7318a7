// Package syncer reconciles the local store with the user's remote document.
//
// Local durability is synchronous: Persist returns only after every
// collection is written locally. Remote durability is best-effort: the
// full-state write runs in the background, at most one at a time; a request
// that arrives while a write is in flight is dropped, not queued. Remote
// failures are logged and never returned to the mutating caller.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/storage"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 10 * time.Second

// Engine is the sync engine. Its methods are safe for concurrent use, but the
// ledger passed in must not be mutated concurrently with a call.
type Engine struct {
	local   storage.LocalStore
	remote  storage.RemoteStore
	logger  *slog.Logger
	metrics *metrics.Sync
	timeout time.Duration
	now     func() time.Time
	onError func(error)

	mu     sync.Mutex
	state  State
	userID string

	writing atomic.Bool
	wg      sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics records engine activity on m.
func WithMetrics(m *metrics.Sync) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTimeout bounds each remote call (default DefaultTimeout).
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock overrides the time source for lastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithErrorHandler receives remote failures, e.g. to show a non-blocking notice.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// New creates an engine in StateUnauthenticated.
func New(local storage.LocalStore, remote storage.RemoteStore, opts ...Option) *Engine {
	e := &Engine{
		local:   local,
		remote:  remote,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.setState(StateUnauthenticated, "")
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// UserID returns the identity the engine syncs for, or "".
func (e *Engine) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID
}

// Start bootstraps sync for userID against l. An empty userID is a sign-out.
//
// If the remote document exists, every collection it carries replaces the
// corresponding collection of l and the result is saved locally. If it does
// not exist, l is written to seed it. If the read fails the engine enters
// StateSyncError and l is left as it was.
func (e *Engine) Start(ctx context.Context, userID string, l *ledger.Ledger) State {
	if userID == "" {
		e.SignOut()
		return StateUnauthenticated
	}
	e.setState(StateBootstrapping, userID)

	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	remote, err := e.remote.Read(rctx, userID)
	cancel()
	if err != nil {
		e.logger.Warn("Sync error (using local cache)", "user_id", userID, "error", err)
		e.countBootstrap("error")
		e.report(fmt.Errorf("remote read failed: %w", err))
		e.setState(StateSyncError, userID)
		return StateSyncError
	}

	if remote != nil {
		replaced, migrated := l.Replace(*remote)
		if err := e.SaveLocal(ctx, l.Snapshot()); err != nil {
			e.logger.Error("Failed to cache remote document locally", "user_id", userID, "error", err)
		}
		if migrated > 0 {
			// Ids assigned to legacy remote records must reach the remote
			// document, or the next bootstrap assigns different ones.
			wctx, cancel := context.WithTimeout(ctx, e.timeout)
			err := e.remote.Write(wctx, userID, l.Snapshot().Stamp(e.now()))
			cancel()
			if err != nil {
				e.logger.Warn("Failed to write migrated ids to remote", "user_id", userID, "ids", migrated, "error", err)
				e.report(fmt.Errorf("remote id migration failed: %w", err))
			} else {
				e.logger.Info("Migrated ids written to remote", "user_id", userID, "ids", migrated)
			}
		}
		e.logger.Info("Remote document loaded",
			"user_id", userID,
			"replaced", len(replaced),
			"last_updated", remote.LastUpdated,
		)
		e.countBootstrap("loaded")
		e.setState(StateSynced, userID)
		return StateSynced
	}

	wctx, cancel := context.WithTimeout(ctx, e.timeout)
	err = e.remote.Write(wctx, userID, l.Snapshot().Stamp(e.now()))
	cancel()
	if err != nil {
		// The document is still absent; the next persisted mutation seeds it.
		e.logger.Warn("Failed to seed remote document", "user_id", userID, "error", err)
		e.countBootstrap("seed_error")
		e.report(fmt.Errorf("remote seed failed: %w", err))
	} else {
		e.logger.Info("Remote document seeded from local state", "user_id", userID)
		e.countBootstrap("seeded")
	}
	e.setState(StateSynced, userID)
	return StateSynced
}

// Resync re-runs the bootstrap for the current identity.
func (e *Engine) Resync(ctx context.Context, l *ledger.Ledger) State {
	return e.Start(ctx, e.UserID(), l)
}

// SignOut forgets the identity. Local data is left untouched.
func (e *Engine) SignOut() {
	e.setState(StateUnauthenticated, "")
}

// Persist saves l locally, then pushes it to the remote store in the
// background. Only a local failure is returned.
func (e *Engine) Persist(ctx context.Context, l *ledger.Ledger) error {
	snap := l.Snapshot()
	if err := e.SaveLocal(ctx, snap); err != nil {
		return fmt.Errorf("failed to save locally: %w", err)
	}

	e.mu.Lock()
	state, userID := e.state, e.userID
	e.mu.Unlock()

	if userID == "" || state != StateSynced {
		e.logger.Debug("Remote write skipped, saved locally only", "user_id", userID, "state", state)
		e.countWrite("skipped")
		return nil
	}
	if !e.writing.CompareAndSwap(false, true) {
		e.logger.Debug("Remote write in flight, dropping request", "user_id", userID)
		e.countWrite("dropped")
		return nil
	}

	snap = snap.Stamp(e.now())
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.writing.Store(false)

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		if err := e.remote.Write(wctx, userID, snap); err != nil {
			e.logger.Warn("Remote save failed", "user_id", userID, "error", err)
			e.countWrite("error")
			e.report(fmt.Errorf("remote save failed: %w", err))
			return
		}
		e.logger.Debug("Remote save ok", "user_id", userID, "last_updated", snap.LastUpdated)
		e.countWrite("ok")
	}()
	return nil
}

// Wait blocks until the in-flight remote write, if any, has settled.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) setState(s State, userID string) {
	e.mu.Lock()
	e.state = s
	e.userID = userID
	e.mu.Unlock()
	if e.metrics != nil {
		e.metrics.State.Set(float64(s))
	}
}

func (e *Engine) report(err error) {
	if e.onError != nil {
		e.onError(err)
	}
}

func (e *Engine) countBootstrap(result string) {
	if e.metrics != nil {
		e.metrics.Bootstraps.WithLabelValues(result).Inc()
	}
}

func (e *Engine) countWrite(result string) {
	if e.metrics != nil {
		e.metrics.RemoteWrites.WithLabelValues(result).Inc()
	}
}
