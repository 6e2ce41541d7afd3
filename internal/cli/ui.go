package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// out receives all status output. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleCellSystem    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleCellCollision = lipgloss.NewStyle().Foreground(colorYellow)
	styleCellDefault   = lipgloss.NewStyle().Foreground(colorWhite)
	styleCellHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(out, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(out, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Diagram Output
// =============================================================================

// printStats prints diagram statistics on a single line.
func printStats(systems, connections, gridSize int, cached bool) {
	parts := []string{
		plural(systems, "system"),
		plural(connections, "connection"),
		fmt.Sprintf("%d×%d grid", gridSize, gridSize),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			line.WriteString(StyleDim.Render(" · "))
		}
		line.WriteString(StyleDim.Render(part))
	}
	line.WriteString(StyleDim.Render(" · "))
	line.WriteString(statusStyle.Render(status))
	fmt.Fprintln(out, line.String())
}

// printCollisions warns about connections that were overwritten in the grid.
func printCollisions(collisions []xdsm.Collision) {
	for _, c := range collisions {
		printWarning("cell (%d, %d): %s replaced by %s", c.Row, c.Col, c.Replaced, c.By)
	}
}

// gridTable renders the placement grid as a table of node names. Systems
// are highlighted and cells that were written twice are marked.
func gridTable(g *xdsm.Grid) string {
	size := g.Size()
	collided := make(map[xdsm.Position]bool, len(g.Collisions))
	for _, c := range g.Collisions {
		collided[c.Position] = true
	}

	headers := make([]string, size+1)
	for j := 0; j < size; j++ {
		headers[j+1] = strconv.Itoa(j)
	}
	rows := make([][]string, size)
	for i := 0; i < size; i++ {
		row := make([]string, size+1)
		row[0] = strconv.Itoa(i)
		for j := 0; j < size; j++ {
			if n, ok := g.At(i, j); ok {
				row[j+1] = n.Name
				if collided[xdsm.Position{Row: i, Col: j}] {
					row[j+1] += " " + iconWarning
				}
			}
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 || col == 0 {
				return base.Inherit(styleCellHeader)
			}
			r, c := row, col-1
			if collided[xdsm.Position{Row: r, Col: c}] {
				return base.Inherit(styleCellCollision)
			}
			if n, ok := g.At(r, c); ok {
				if _, isSystem := g.Position(n.Name); isSystem {
					return base.Inherit(styleCellSystem)
				}
			}
			return base.Inherit(styleCellDefault)
		})
	return t.Render()
}

// printGrid prints the placement grid table.
func printGrid(g *xdsm.Grid) {
	fmt.Fprintln(out, gridTable(g))
}

// =============================================================================
// Utilities
// =============================================================================

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(out)
}
