package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/xdsm/pkg/errors"
)

func testItems(n int) []pickItem {
	items := make([]pickItem, n)
	for i := range items {
		items[i] = pickItem{Name: string(rune('a' + i)), Kind: "toml"}
	}
	return items
}

func press(m PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(PickerModel), cmd
}

func TestPickerNavigation(t *testing.T) {
	m := NewPickerModel("Pick", testItems(3))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}) // clamped at the last item
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
	if m.Selected != -1 {
		t.Errorf("Selected = %d before enter, want -1", m.Selected)
	}
}

func TestPickerSelect(t *testing.T) {
	m := NewPickerModel("Pick", testItems(3))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPickerQuit(t *testing.T) {
	m := NewPickerModel("Pick", testItems(2))
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit the program")
	}
	if m.Selected != -1 {
		t.Errorf("Selected = %d after quit, want -1", m.Selected)
	}
}

func TestPickerEnterOnEmptyList(t *testing.T) {
	m := NewPickerModel("Pick", nil)
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.Selected != -1 {
		t.Errorf("enter on empty list: Selected = %d, cmd = %v", m.Selected, cmd)
	}
}

func TestPickerScrolls(t *testing.T) {
	m := NewPickerModel("Pick", testItems(10))
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: 9})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	for range 6 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	view := m.View()
	if !strings.Contains(view, "[7/10]") {
		t.Errorf("view missing position:\n%s", view)
	}
}

func TestDefinitionFiles(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.yaml", "")
	writeFile(t, dir, "new.toml", "")
	writeFile(t, dir, "notes.txt", "")
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	items, err := definitionFiles(dir)
	if err != nil {
		t.Fatalf("definitionFiles() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
	if items[0].Name != filepath.Join(dir, "new.toml") || items[0].Kind != "toml" {
		t.Errorf("items[0] = %+v, want new.toml first", items[0])
	}
	if items[1].Name != old || items[1].Kind != "yaml" {
		t.Errorf("items[1] = %+v, want old.yaml", items[1])
	}
}

func TestPickDefinitionFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := pickDefinitionFile(dir); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("empty dir: error = %v, want FILE_NOT_FOUND", err)
	}

	only := writeFile(t, dir, "only.hcl", "")
	got, err := pickDefinitionFile(dir)
	if err != nil {
		t.Fatalf("pickDefinitionFile() error: %v", err)
	}
	if got != only {
		t.Errorf("pickDefinitionFile() = %q, want %q", got, only)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(tt.t); got != tt.want {
			t.Errorf("formatRelativeTime(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
