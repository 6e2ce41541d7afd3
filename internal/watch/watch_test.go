package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/goleak"

	"github.com/matzehuels/xdsm/pkg/errors"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	ch    chan string
}

func newRecorder() *recorder { return &recorder{ch: make(chan string, 16)} }

func (r *recorder) handle(_ context.Context, path string) {
	r.mu.Lock()
	r.calls = append(r.calls, path)
	r.mu.Unlock()
	r.ch <- path
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestWatcherDebounces(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	watched := filepath.Join(dir, "mdf.toml")
	other := filepath.Join(dir, "other.toml")
	for _, f := range []string{watched, other} {
		if err := os.WriteFile(f, []byte("# v0"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rec := newRecorder()
	w, err := New([]string{watched}, rec.handle, Options{Debounce: 100 * time.Millisecond, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := range 5 {
		if err := os.WriteFile(watched, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("# v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-rec.ch:
		if got != watched {
			t.Errorf("handler path = %q, want %q", got, watched)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	// Give a second, spurious call the chance to arrive.
	time.Sleep(300 * time.Millisecond)
	if n := rec.count(); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestWatcherRename(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	watched := filepath.Join(dir, "mdf.yaml")
	if err := os.WriteFile(watched, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w, err := New([]string{watched}, rec.handle, Options{Debounce: 50 * time.Millisecond, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	tmp := filepath.Join(dir, ".mdf.yaml.swp")
	if err := os.WriteFile(tmp, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, watched); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rec.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called after an atomic save")
	}
	cancel()
	<-done
}

func TestNewErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	if _, err := New(nil, func(context.Context, string) {}, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(nil) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	missing := filepath.Join(t.TempDir(), "gone", "mdf.toml")
	if _, err := New([]string{missing}, func(context.Context, string) {}, Options{Logger: quietLogger()}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("New(missing dir) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestDue(t *testing.T) {
	w := &Watcher{debounce: time.Second, pending: make(map[string]time.Time)}
	now := time.Now()
	w.pending["/b"] = now.Add(-2 * time.Second)
	w.pending["/a"] = now.Add(-time.Second)
	w.pending["/c"] = now.Add(-time.Millisecond)

	got := w.due(now)
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("due() = %v, want [/a /b]", got)
	}
	if _, ok := w.pending["/c"]; !ok || len(w.pending) != 1 {
		t.Errorf("pending after due() = %v, want only /c", w.pending)
	}
}
