package xdsm

import (
	"fmt"
	"strings"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// Node is a rendered cell of the placement grid.
type Node struct {
	Name  string
	Style string // full option list, modifiers included
	Label Label
}

// Markup returns the TikZ \node statement for n.
func (n Node) Markup() string {
	return fmt.Sprintf(`\node [%s] (%s) {%s};`, n.Style, n.Name, n.Label.Math())
}

// Position is a zero-based (row, column) cell index.
type Position struct {
	Row int
	Col int
}

// Collision records a cell that was written twice. The later node wins.
type Collision struct {
	Position
	Replaced string // name of the node that was overwritten
	By       string // name of the node now in the cell
}

// Grid is the square, sparse placement matrix of a diagram.
type Grid struct {
	size  int
	cells [][]*Node
	rows  map[string]int
	cols  map[string]int

	// Collisions lists every overwritten cell in placement order.
	Collisions []Collision
}

func newGrid(size int) *Grid {
	cells := make([][]*Node, size)
	for i := range cells {
		cells[i] = make([]*Node, size)
	}
	return &Grid{
		size:  size,
		cells: cells,
		rows:  make(map[string]int),
		cols:  make(map[string]int),
	}
}

// Size returns the number of rows (and columns).
func (g *Grid) Size() int { return g.size }

// At returns the node at (row, col), if any.
func (g *Grid) At(row, col int) (Node, bool) {
	if row < 0 || col < 0 || row >= g.size || col >= g.size {
		return Node{}, false
	}
	n := g.cells[row][col]
	if n == nil {
		return Node{}, false
	}
	return *n, true
}

// Position returns the diagonal cell of a system.
func (g *Grid) Position(system string) (Position, bool) {
	r, ok := g.rows[system]
	if !ok {
		return Position{}, false
	}
	return Position{Row: r, Col: g.cols[system]}, true
}

// Occupied returns the number of non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}

func (g *Grid) place(row, col int, n Node) {
	if prev := g.cells[row][col]; prev != nil {
		g.Collisions = append(g.Collisions, Collision{
			Position: Position{Row: row, Col: col},
			Replaced: prev.Name,
			By:       n.Name,
		})
	}
	g.cells[row][col] = &n
}

// String serializes the grid as the body of a TikZ matrix. Each row is
// preceded by a "%Row i" comment, cells are separated by "&" line breaks and
// every row ends with a row separator.
func (g *Grid) String() string {
	var b strings.Builder
	for i, row := range g.cells {
		fmt.Fprintf(&b, "%%Row %d\n", i)
		for j, c := range row {
			if j > 0 {
				b.WriteString("&\n")
			}
			if c != nil {
				b.WriteString(c.Markup())
			}
		}
		b.WriteString("\\\\\n")
	}
	return b.String()
}

// Layout computes the placement grid.
//
// The grid has one row and column per system. An input marker anywhere adds a
// top row, a left output anywhere adds a first column and a right output
// anywhere adds a last column. Systems sit on the diagonal of what remains,
// connections at (source row, target column), outputs in the border column of
// their system's row and inputs in the top row of their system's column.
//
// Connections or markers that refer to an undeclared system fail with
// ErrCodeUnknownComponent. Two connections with the same source and target
// share a cell; the later declaration wins and the overwrite is recorded in
// [Grid.Collisions].
func (d *Diagram) Layout() (*Grid, error) {
	size := len(d.systems)
	rowOffset, colOffset := 0, 0

	if d.inputs.len() > 0 {
		size++
		rowOffset = 1
	}
	if d.leftOutputs.len() > 0 {
		size++
		colOffset = 1
	}
	if d.rightOutputs.len() > 0 {
		size++
	}

	g := newGrid(size)

	for i, s := range d.systems {
		row, col := i+rowOffset, i+colOffset
		g.place(row, col, Node{
			Name:  s.Name,
			Style: composeStyle(s.Style, s.Stack, s.Faded, s.TextWidth),
			Label: s.Label,
		})
		g.rows[s.Name] = row
		g.cols[s.Name] = col
	}

	for _, c := range d.connections {
		row, ok := g.rows[c.From]
		if !ok {
			return nil, unknownComponent(c.From, "connection "+c.NodeName())
		}
		col, ok := g.cols[c.To]
		if !ok {
			return nil, unknownComponent(c.To, "connection "+c.NodeName())
		}
		g.place(row, col, Node{
			Name:  c.NodeName(),
			Style: composeStyle(c.Style, c.Stack, c.Faded, 0),
			Label: c.Label,
		})
	}

	for _, m := range d.leftOutputs.list() {
		row, ok := g.rows[m.Component]
		if !ok {
			return nil, unknownComponent(m.Component, "left output")
		}
		g.place(row, 0, markerNode(m))
	}

	for _, m := range d.rightOutputs.list() {
		row, ok := g.rows[m.Component]
		if !ok {
			return nil, unknownComponent(m.Component, "right output")
		}
		g.place(row, size-1, markerNode(m))
	}

	for _, m := range d.inputs.list() {
		col, ok := g.cols[m.Component]
		if !ok {
			return nil, unknownComponent(m.Component, "input")
		}
		g.place(0, col, markerNode(m))
	}

	return g, nil
}

func markerNode(m Marker) Node {
	return Node{
		Name:  m.NodeName(),
		Style: composeStyle(m.Style, m.Stack, false, 0),
		Label: m.Label,
	}
}

func unknownComponent(name, where string) error {
	return errors.New(errors.ErrCodeUnknownComponent, "%s refers to %q but no system with that name exists", where, name)
}
