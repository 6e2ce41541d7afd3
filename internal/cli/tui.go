package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive selection from a list
// =============================================================================

// pickItem is one selectable row.
type pickItem struct {
	Name    string
	Kind    string
	Updated time.Time
}

// PickerModel is the bubbletea model for picking a definition file or a
// stored diagram.
type PickerModel struct {
	Title    string
	Items    []pickItem
	Cursor   int
	Selected int // index of the chosen item, -1 until enter is pressed
	Height   int
	Offset   int
}

// NewPickerModel creates a picker over items.
func NewPickerModel(title string, items []pickItem) PickerModel {
	return PickerModel{
		Title:    title,
		Items:    items,
		Selected: -1,
		Height:   15,
	}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) > 0 {
				m.Selected = m.Cursor
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, it.Name, it.Kind, formatRelativeTime(it.Updated)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Details", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	return b.String()
}

// runPicker shows the picker and returns the chosen index, or -1 when the
// user quit without choosing.
func runPicker(title string, items []pickItem) (int, error) {
	p := tea.NewProgram(NewPickerModel(title, items), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return -1, errors.Wrap(errors.ErrCodeInternal, err, "run picker")
	}
	return final.(PickerModel).Selected, nil
}

// =============================================================================
// Definition files
// =============================================================================

// definitionFiles lists the definition files in dir, most recently
// modified first.
func definitionFiles(dir string) ([]pickItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}
	var items []pickItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, err := io.DetectFormat(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, pickItem{
			Name:    filepath.Join(dir, e.Name()),
			Kind:    string(format),
			Updated: info.ModTime(),
		})
	}
	slices.SortStableFunc(items, func(a, b pickItem) int {
		if c := b.Updated.Compare(a.Updated); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items, nil
}

// pickDefinitionFile lets the user choose a definition file in dir. It
// returns "" when the user quit.
func pickDefinitionFile(dir string) (string, error) {
	items, err := definitionFiles(dir)
	if err != nil {
		return "", err
	}
	switch len(items) {
	case 0:
		return "", errors.New(errors.ErrCodeFileNotFound,
			"no definition files (.toml, .yaml, .json, .hcl) in %s; run '%s init' to create one", dir, appName)
	case 1:
		return items[0].Name, nil
	}
	i, err := runPicker("Select Definition", items)
	if err != nil || i < 0 {
		return "", err
	}
	return items[i].Name, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
