package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hisab/internal/calculator"
	"github.com/mmynk/hisab/internal/ledger"
	"github.com/mmynk/hisab/internal/metrics"
	"github.com/mmynk/hisab/internal/models"
	"github.com/mmynk/hisab/internal/storage"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fixture struct {
	local   *memLocal
	remote  *fakeRemote
	events  *events
	metrics *metrics.Sync
	engine  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ev := &events{}
	f := &fixture{
		local:   newMemLocal(ev),
		remote:  newFakeRemote(ev),
		events:  ev,
		metrics: metrics.NewSync(prometheus.NewRegistry()),
	}
	f.engine = New(f.local, f.remote,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return fixedNow }),
		WithTimeout(time.Second),
	)
	return f
}

func (f *fixture) load(t *testing.T) *ledger.Ledger {
	t.Helper()
	snap, err := f.engine.LoadLocal(context.Background())
	require.NoError(t, err)
	return ledger.FromSnapshot(snap, ledger.WithClock(func() time.Time { return fixedNow }))
}

func TestLoadLocal_Defaults(t *testing.T) {
	f := newFixture(t)

	snap, err := f.engine.LoadLocal(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Expenses)
	assert.Empty(t, snap.Names)
	assert.Equal(t, models.DefaultCategories(), snap.Categories)
}

func TestLoadLocal_CorruptKey(t *testing.T) {
	f := newFixture(t)
	f.local.data["expenses"] = []byte("{not json")

	_, err := f.engine.LoadLocal(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestLoadLocal_LegacyRecordsGetIDs(t *testing.T) {
	f := newFixture(t)
	f.local.data["expenses"] = []byte(`[{"title":"যাতায়াত","amount":"30","date":"2026-01-02T00:00:00Z"}]`)

	l := f.load(t)
	expenses := l.Expenses()
	require.Len(t, expenses, 1)
	assert.NotEmpty(t, expenses[0].ID)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(30)))
}

func TestStart_FreshUserSeedsRemote(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)

	state := f.engine.Start(context.Background(), "user-1", l)
	require.Equal(t, StateSynced, state)

	doc := f.remote.doc("user-1")
	require.NotNil(t, doc)
	assert.JSONEq(t, `[]`, string(doc["expenses"]))
	assert.JSONEq(t, `[]`, string(doc["debts"]))
	assert.JSONEq(t, `[]`, string(doc["loans"]))
	assert.JSONEq(t, `[]`, string(doc["todos"]))
	assert.JSONEq(t, `[]`, string(doc["names"]))
	assert.JSONEq(t, `["বাজার খরচ","বাসা ভাড়া","যাতায়াত","মোবাইল বিল","অন্যান্য"]`, string(doc["categories"]))
	assert.JSONEq(t, `"2026-10-18T09:30:00.000Z"`, string(doc["lastUpdated"]))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Bootstraps.WithLabelValues("seeded")))
}

func TestStart_RemoteReplacesLocal(t *testing.T) {
	f := newFixture(t)
	f.remote.put("user-1", `{"expenses":[{"id":"a","title":"বাজার খরচ","amount":100,"date":"2026-10-01T00:00:00Z"}]}`)

	l := f.load(t)
	_, err := l.AddName("Karim")
	require.NoError(t, err)

	state := f.engine.Start(context.Background(), "user-1", l)
	require.Equal(t, StateSynced, state)

	expenses := l.Expenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, "a", expenses[0].ID)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(100)))

	// absent fields keep the local collection
	assert.Equal(t, []string{"Karim"}, l.Names())

	reloaded := f.load(t)
	require.Len(t, reloaded.Expenses(), 1)
	assert.Equal(t, "a", reloaded.Expenses()[0].ID)
	assert.Equal(t, 0, f.remote.writeCount())
}

func TestStart_Idempotent(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	_, err := l.AddExpense(ledger.ExpenseInput{Title: "বাজার খরচ", Amount: "50"})
	require.NoError(t, err)
	require.NoError(t, f.engine.Persist(context.Background(), l))

	f.engine.Start(context.Background(), "user-1", l)
	first := f.local.dump()

	f.engine.Start(context.Background(), "user-1", l)
	second := f.local.dump()

	assert.Equal(t, first, second)
}

func TestStart_LegacyRemoteRecordsKeepTheirIDs(t *testing.T) {
	f := newFixture(t)
	f.remote.put("user-1", `{"expenses":[{"title":"বাজার খরচ","amount":100,"date":"2026-10-01T00:00:00Z"}]}`)
	l := f.load(t)

	require.Equal(t, StateSynced, f.engine.Start(context.Background(), "user-1", l))
	first := f.local.dump()["expenses"]
	require.Equal(t, 1, f.remote.writeCount(), "assigned ids are written back")

	var remote []models.Expense
	require.NoError(t, json.Unmarshal(f.remote.doc("user-1")["expenses"], &remote))
	require.Len(t, remote, 1)
	assert.Equal(t, l.Expenses()[0].ID, remote[0].ID)

	require.Equal(t, StateSynced, f.engine.Resync(context.Background(), l))
	assert.Equal(t, first, f.local.dump()["expenses"])
	assert.Equal(t, 1, f.remote.writeCount(), "second bootstrap has nothing to migrate")
}

func TestStart_SeededAmountsAreNumbers(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	_, err := l.AddExpense(ledger.ExpenseInput{Title: "বাজার খরচ", Amount: "100"})
	require.NoError(t, err)

	require.Equal(t, StateSynced, f.engine.Start(context.Background(), "user-1", l))

	var expenses []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(f.remote.doc("user-1")["expenses"], &expenses))
	require.Len(t, expenses, 1)
	assert.Equal(t, "100", string(expenses[0]["amount"]))
}

func TestPersist_SkippedWriteIsLogged(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t)
	f.engine = New(f.local, f.remote,
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return fixedNow }),
	)
	f.remote.readErr = errNetwork
	l := f.load(t)
	require.Equal(t, StateSyncError, f.engine.Start(context.Background(), "user-1", l))

	_, err := l.AddTodo(ledger.TodoInput{Text: "বাজার"})
	require.NoError(t, err)
	require.NoError(t, f.engine.Persist(context.Background(), l))

	assert.Contains(t, buf.String(), "Remote write skipped")
	assert.Contains(t, buf.String(), "state=SYNC_ERROR")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteWrites.WithLabelValues("skipped")))
}

func TestStart_ReadFailureDegradesToLocal(t *testing.T) {
	f := newFixture(t)
	f.remote.readErr = errNetwork

	var reported []error
	f.engine.onError = func(err error) { reported = append(reported, err) }

	l := f.load(t)
	_, err := l.AddName("Karim")
	require.NoError(t, err)

	state := f.engine.Start(context.Background(), "user-1", l)
	assert.Equal(t, StateSyncError, state)
	assert.Equal(t, StateSyncError, f.engine.State())
	assert.Equal(t, []string{"Karim"}, l.Names())
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], errNetwork)

	// local-only: mutations still persist locally, nothing reaches the remote
	_, err = l.AddName("Rahim")
	require.NoError(t, err)
	require.NoError(t, f.engine.Persist(context.Background(), l))
	f.engine.Wait()

	assert.Contains(t, f.local.dump()["names"], "Rahim")
	assert.Equal(t, 0, f.remote.writeCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteWrites.WithLabelValues("skipped")))

	// a later resync recovers
	f.remote.readErr = nil
	assert.Equal(t, StateSynced, f.engine.Resync(context.Background(), l))
}

func TestStart_EmptyUserSignsOut(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)

	assert.Equal(t, StateUnauthenticated, f.engine.Start(context.Background(), "", l))
	assert.Equal(t, 0, f.remote.writeCount())
}

func TestPersist_LocalBeforeRemote(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	f.engine.Start(context.Background(), "user-1", l)
	seedWrites := len(f.events.list())

	_, err := l.AddExpense(ledger.ExpenseInput{Title: "বাজার খরচ", Amount: "50"})
	require.NoError(t, err)
	require.NoError(t, f.engine.Persist(context.Background(), l))
	f.engine.Wait()

	got := f.events.list()[seedWrites:]
	require.Len(t, got, len(models.AllCollections)+1)
	for _, e := range got[:len(models.AllCollections)] {
		assert.Contains(t, e, "local:")
	}
	assert.Equal(t, "remote", got[len(got)-1])

	snap, err := f.remote.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, snap.Expenses, 1)
	assert.True(t, calculator.ExpenseTotal(snap.Expenses).Equal(decimal.NewFromInt(50)))
}

func TestPersist_InFlightWriteDropsNext(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	f.engine.Start(context.Background(), "user-1", l)
	seeded := f.remote.writeCount()

	block := make(chan struct{})
	started := make(chan struct{}, 1)
	f.remote.mu.Lock()
	f.remote.block = block
	f.remote.started = started
	f.remote.mu.Unlock()

	l.AddName("Karim")
	require.NoError(t, f.engine.Persist(context.Background(), l))
	<-started

	l.AddName("Rahim")
	require.NoError(t, f.engine.Persist(context.Background(), l))

	// the second request was dropped but is durable locally
	assert.Contains(t, f.local.dump()["names"], "Rahim")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteWrites.WithLabelValues("dropped")))

	close(block)
	f.engine.Wait()
	assert.Equal(t, seeded+1, f.remote.writeCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteWrites.WithLabelValues("ok")))
}

func TestPersist_RemoteFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	f.engine.Start(context.Background(), "user-1", l)
	f.remote.writeErr = errNetwork

	l.AddName("Karim")
	err := f.engine.Persist(context.Background(), l)
	f.engine.Wait()

	require.NoError(t, err)
	assert.Equal(t, StateSynced, f.engine.State())
	assert.Contains(t, f.local.dump()["names"], "Karim")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteWrites.WithLabelValues("error")))
}

func TestPersist_LocalFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	f.local.saveErr = errNetwork

	err := f.engine.Persist(context.Background(), l)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNetwork)
}

func TestSignOut_KeepsLocalData(t *testing.T) {
	f := newFixture(t)
	l := f.load(t)
	f.engine.Start(context.Background(), "user-1", l)
	l.AddName("Karim")
	require.NoError(t, f.engine.Persist(context.Background(), l))
	f.engine.Wait()
	writes := f.remote.writeCount()

	f.engine.SignOut()
	assert.Equal(t, StateUnauthenticated, f.engine.State())
	assert.Empty(t, f.engine.UserID())

	l.AddName("Rahim")
	require.NoError(t, f.engine.Persist(context.Background(), l))
	f.engine.Wait()

	assert.Equal(t, writes, f.remote.writeCount())
	assert.Contains(t, f.local.dump()["names"], "Rahim")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "UNAUTHENTICATED", StateUnauthenticated.String())
	assert.Equal(t, "BOOTSTRAPPING", StateBootstrapping.String())
	assert.Equal(t, "SYNCED", StateSynced.String())
	assert.Equal(t, "SYNC_ERROR", StateSyncError.String())
}
