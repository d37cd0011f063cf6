package proxy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"cloudproxy/internal/adaptation"
	"cloudproxy/internal/config"
	"cloudproxy/internal/journal"
	"cloudproxy/internal/logging"
	"cloudproxy/internal/staging"
)

// fakeClient drives the orchestrator through each branch deterministically.
type fakeClient struct {
	connectErr   error
	requestErr   error
	result       adaptation.Result
	rebuilt      []byte
	block        bool
	ignoreCancel bool

	connects  atomic.Int32
	requests  atomic.Int32
	closes    atomic.Int32
	cancelled atomic.Int32

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{closed: make(chan struct{})}
}

func (f *fakeClient) Connect(context.Context) error {
	f.connects.Add(1)
	return f.connectErr
}

func (f *fakeClient) Request(ctx context.Context, _ uuid.UUID, _, rebuiltPath string) (adaptation.Result, error) {
	f.requests.Add(1)
	if f.ignoreCancel {
		<-f.closed
		return adaptation.Result{}, errors.New("connection closed")
	}
	if f.block {
		<-ctx.Done()
		f.cancelled.Add(1)
		return adaptation.Result{}, ctx.Err()
	}
	if f.rebuilt != nil {
		if err := os.WriteFile(rebuiltPath, f.rebuilt, 0o644); err != nil {
			return adaptation.Result{}, err
		}
	}
	return f.result, f.requestErr
}

func (f *fakeClient) Close() error {
	f.closes.Add(1)
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeClient) factory(built *atomic.Int32) adaptation.Factory {
	return func() (adaptation.Client, error) {
		if built != nil {
			built.Add(1)
		}
		return f, nil
	}
}

type harness struct {
	store  *staging.Store
	input  string
	output string
	req    config.Request
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	base := t.TempDir()
	original := filepath.Join(base, "original")
	rebuilt := filepath.Join(base, "rebuilt")
	for _, dir := range []string{original, rebuilt} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	input := filepath.Join(base, "input.docx")
	if err := os.WriteFile(input, []byte("untrusted content"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(base, "output.docx")
	return &harness{
		store:  staging.NewStore(original, rebuilt, logging.NewNop()),
		input:  input,
		output: output,
		req: config.Request{
			FileID:     uuid.NewString(),
			InputPath:  input,
			OutputPath: output,
		},
	}
}

func (h *harness) assertStagingClear(t *testing.T, id uuid.UUID) {
	t.Helper()
	paths := h.store.PathsFor(id)
	for _, path := range []string{paths.Original, paths.Rebuilt} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("staging file %s still present (err=%v)", path, err)
		}
	}
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, entry *journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}
