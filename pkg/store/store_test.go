package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
)

func testDefinition(name string) *io.Definition {
	return &io.Definition{
		Options: map[string]any{"use_sfmath": false},
		Systems: []io.System{
			{Name: name, Style: "Function", Label: []any{"a", "b"}},
			{Name: "opt", Style: "Optimization"},
		},
		Connections: []io.Connection{{From: "opt", To: name, Label: "x"}},
	}
}

// testStore exercises the Store contract.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first := New("first", testDefinition("A"))
	second := New("second", testDefinition("B"))
	second.UpdatedAt = first.UpdatedAt.Add(time.Second)

	for _, rec := range []*Diagram{first, second} {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put(%s) error: %v", rec.Name, err)
		}
	}

	got, err := s.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "first" || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("Get() = %+v, want %+v", got, first)
	}
	if _, err := io.ToDiagram(got.Definition); err != nil {
		t.Errorf("stored definition no longer builds: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("List() = %v, want second then first", names(list))
	}

	first.Name = "renamed"
	first.UpdatedAt = second.UpdatedAt.Add(time.Second)
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("Put(replace) error: %v", err)
	}
	list, _ = s.List(ctx)
	if len(list) != 2 || list[0].Name != "renamed" {
		t.Errorf("List() after replace = %v, want renamed first", names(list))
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, first.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(deleted) error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(deleted) error = %v, want %s", err, errors.ErrCodeNotFound)
	}

	if err := s.Put(ctx, &Diagram{ID: "not-a-uuid", Definition: testDefinition("A")}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put(bad id) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if err := s.Put(ctx, &Diagram{ID: New("x", nil).ID}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put(no definition) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	for _, id := range []string{"", "not-a-uuid", "../escape", second.ID + "x"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) error = %v, want %s", id, err, errors.ErrCodeInvalidInput)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Delete(%q) error = %v, want %s", id, err, errors.ErrCodeInvalidInput)
		}
	}
}

func names(recs []*Diagram) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
	testStore(t, s)
}

func TestFileStoreIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600)

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %v, want empty", names(list))
	}

	if _, err := s.Get(context.Background(), "../escape"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(../escape) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNew(t *testing.T) {
	a := New("a", testDefinition("A"))
	b := New("b", testDefinition("A"))
	if a.ID == b.ID {
		t.Error("New() returned duplicate IDs")
	}
	if err := ValidateID(a.ID); err != nil {
		t.Errorf("ValidateID(New().ID) error: %v", err)
	}
	if !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal", a.CreatedAt, a.UpdatedAt)
	}
}
