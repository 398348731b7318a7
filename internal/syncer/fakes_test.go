package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mmynk/hisab/internal/models"
)

// events records the order of local and remote writes across fakes.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

type memLocal struct {
	mu      sync.Mutex
	data    map[string][]byte
	events  *events
	saveErr error
}

func newMemLocal(ev *events) *memLocal {
	return &memLocal{data: make(map[string][]byte), events: ev}
}

func (m *memLocal) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memLocal) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), value...)
	if m.events != nil {
		m.events.add("local:" + key)
	}
	return nil
}

func (m *memLocal) dump() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = string(v)
	}
	return out
}

type fakeRemote struct {
	mu       sync.Mutex
	docs     map[string][]byte
	readErr  error
	writeErr error
	writes   int
	block    chan struct{} // when set, Write waits for it to close
	started  chan struct{} // signalled when a blocked Write begins
	events   *events
}

func newFakeRemote(ev *events) *fakeRemote {
	return &fakeRemote{docs: make(map[string][]byte), events: ev}
}

func (f *fakeRemote) Read(_ context.Context, userID string) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	raw, ok := f.docs[userID]
	if !ok {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (f *fakeRemote) Write(ctx context.Context, userID string, snap models.Snapshot) error {
	f.mu.Lock()
	block, started := f.block, f.started
	f.mu.Unlock()
	if block != nil {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.events != nil {
		f.events.add("remote")
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	f.docs[userID] = raw
	return nil
}

func (f *fakeRemote) put(userID, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[userID] = []byte(doc)
}

func (f *fakeRemote) doc(userID string) map[string]json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.docs[userID]
	if !ok {
		return nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func (f *fakeRemote) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

var errNetwork = errors.New("network unreachable")
