package xdsm

import (
	"fmt"
	"strings"
)

// Edge is a directed data line between two named nodes.
type Edge struct {
	From string
	To   string
}

// String renders the edge as a TikZ path segment.
func (e Edge) String() string {
	return fmt.Sprintf("(%s) edge [DataLine] (%s)", e.From, e.To)
}

// Edges holds the data lines of a diagram, split by direction.
type Edges struct {
	Horizontal []Edge
	Vertical   []Edge
}

// String renders the edges as the body of a TikZ \path, terminated by ";".
func (e Edges) String() string {
	var b strings.Builder
	b.WriteString("% Horizontal edges\n")
	b.WriteString(joinEdges(e.Horizontal))
	b.WriteString("\n% Vertical edges\n")
	b.WriteString(joinEdges(e.Vertical))
	b.WriteString(";")
	return b.String()
}

func joinEdges(edges []Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n")
}

// Edges derives the data lines of the diagram.
//
// Horizontal lines run from a system to each of its connection nodes and to
// its left and right outputs. Vertical lines run from each connection node
// down to its target and from a system up to its input. Coordinates are left
// to TikZ; edges only reference node names.
func (d *Diagram) Edges() Edges {
	var e Edges
	for _, c := range d.connections {
		e.Horizontal = append(e.Horizontal, Edge{From: c.From, To: c.NodeName()})
		e.Vertical = append(e.Vertical, Edge{From: c.NodeName(), To: c.To})
	}
	for _, m := range d.leftOutputs.list() {
		e.Horizontal = append(e.Horizontal, Edge{From: m.Component, To: m.NodeName()})
	}
	for _, m := range d.rightOutputs.list() {
		e.Horizontal = append(e.Horizontal, Edge{From: m.Component, To: m.NodeName()})
	}
	for _, m := range d.inputs.list() {
		e.Vertical = append(e.Vertical, Edge{From: m.Component, To: m.NodeName()})
	}
	return e
}
