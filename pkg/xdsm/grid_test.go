package xdsm

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/xdsm/pkg/errors"
)

func newTestDiagram(names ...string) *Diagram {
	d := New(DefaultConfig())
	for _, n := range names {
		d.AddSystem(n, "Function", Text(n))
	}
	return d
}

func TestLayoutDiagonal(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d systems", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("S%d", i)
			}
			g, err := newTestDiagram(names...).Layout()
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if g.Size() != n {
				t.Errorf("Size() = %d, want %d", g.Size(), n)
			}
			for i, name := range names {
				node, ok := g.At(i, i)
				if !ok || node.Name != name {
					t.Errorf("At(%d, %d) = %q, %v, want %q", i, i, node.Name, ok, name)
				}
			}
			if g.Occupied() != n {
				t.Errorf("Occupied() = %d, want %d", g.Occupied(), n)
			}
		})
	}
}

func TestLayoutInputsAddOneRow(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{"one input", []string{"A"}},
		{"two inputs", []string{"A", "B"}},
		{"three inputs", []string{"A", "B", "C"}},
		{"repeated input", []string{"B", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDiagram("A", "B", "C")
			for _, in := range tt.inputs {
				d.AddInput(in, Text("x_"+in))
			}
			g, err := d.Layout()
			if err != nil {
				t.Fatalf("Layout() error: %v", err)
			}
			if g.Size() != 4 {
				t.Errorf("Size() = %d, want 4", g.Size())
			}
			for i, name := range []string{"A", "B", "C"} {
				pos, _ := g.Position(name)
				if pos != (Position{Row: i + 1, Col: i}) {
					t.Errorf("Position(%q) = %+v, want {%d %d}", name, pos, i+1, i)
				}
			}
		})
	}
}

func TestLayoutOutputsAddColumns(t *testing.T) {
	d := newTestDiagram("A", "B")
	d.AddOutput("A", Text("a^*"), SideLeft)
	d.AddOutput("B", Text("b^*"), SideRight)

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if g.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", g.Size())
	}

	want := map[Position]string{
		{0, 1}: "A",
		{1, 2}: "B",
		{0, 0}: "left_output_A",
		{1, 3}: "right_output_B",
	}
	for pos, name := range want {
		node, ok := g.At(pos.Row, pos.Col)
		if !ok || node.Name != name {
			t.Errorf("At(%d, %d) = %q, want %q", pos.Row, pos.Col, node.Name, name)
		}
	}
}

func TestLayoutRightOutputOnly(t *testing.T) {
	d := newTestDiagram("A", "B")
	d.AddOutput("A", Text("a^*"), SideRight)

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if g.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", g.Size())
	}
	if pos, _ := g.Position("A"); pos != (Position{0, 0}) {
		t.Errorf("Position(A) = %+v, want {0 0}", pos)
	}
	if node, ok := g.At(0, 2); !ok || node.Name != "right_output_A" {
		t.Errorf("At(0, 2) = %q, want right_output_A", node.Name)
	}
}

func TestLayoutTwoSystemsOneConnection(t *testing.T) {
	d := newTestDiagram("A", "B")
	if err := d.Connect("A", "B", Text("y")); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	want := "%Row 0\n" +
		`\node [Function] (A) {$A$};` + "&\n" +
		`\node [DataInter] (A-B) {$y$};` + `\\` + "\n" +
		"%Row 1\n" +
		"&\n" +
		`\node [Function] (B) {$B$};` + `\\` + "\n"
	if diff := cmp.Diff(want, g.String()); diff != "" {
		t.Errorf("Grid.String() mismatch (-want +got):\n%s", diff)
	}

	node, ok := g.At(0, 1)
	if !ok || node.Name != "A-B" || node.Label.Math() != "$y$" {
		t.Errorf("At(0, 1) = %+v, want A-B with label $y$", node)
	}
}

func TestLayoutSingleInput(t *testing.T) {
	d := newTestDiagram("A")
	d.AddInput("A", Text("z"))

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	if node, ok := g.At(1, 0); !ok || node.Name != "A" {
		t.Errorf("At(1, 0) = %q, want A", node.Name)
	}
	if node, ok := g.At(0, 0); !ok || node.Name != "output_A" {
		t.Errorf("At(0, 0) = %q, want output_A", node.Name)
	}
	if _, ok := g.At(0, 1); ok {
		t.Error("At(0, 1) should be empty")
	}
}

func TestLayoutSharedEndpoints(t *testing.T) {
	d := newTestDiagram("A", "B", "C")
	_ = d.Connect("A", "B", Text("x"))
	_ = d.Connect("A", "C", Text("y"))
	_ = d.Connect("B", "C", Text("z"))

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	for _, want := range []struct {
		pos  Position
		name string
	}{
		{Position{0, 1}, "A-B"},
		{Position{0, 2}, "A-C"},
		{Position{1, 2}, "B-C"},
	} {
		if node, ok := g.At(want.pos.Row, want.pos.Col); !ok || node.Name != want.name {
			t.Errorf("At(%d, %d) = %q, want %q", want.pos.Row, want.pos.Col, node.Name, want.name)
		}
	}
	if len(g.Collisions) != 0 {
		t.Errorf("Collisions = %v, want none", g.Collisions)
	}
}

func TestLayoutCollisionLastWins(t *testing.T) {
	d := newTestDiagram("opt", "F")
	_ = d.Connect("opt", "F", Text("x, z"))
	_ = d.Connect("opt", "F", Text("y_1, y_2"))

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	node, _ := g.At(0, 1)
	if node.Label.Math() != "$y_1, y_2$" {
		t.Errorf("At(0, 1) label = %q, want $y_1, y_2$", node.Label.Math())
	}
	want := []Collision{{Position: Position{0, 1}, Replaced: "opt-F", By: "opt-F"}}
	if diff := cmp.Diff(want, g.Collisions); diff != "" {
		t.Errorf("Collisions mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutUnknownComponent(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *Diagram)
	}{
		{"connection source", func(d *Diagram) { _ = d.Connect("X", "A", Text("x")) }},
		{"connection target", func(d *Diagram) { _ = d.Connect("A", "X", Text("x")) }},
		{"input", func(d *Diagram) { d.AddInput("X", Text("x")) }},
		{"left output", func(d *Diagram) { d.AddOutput("X", Text("x"), SideLeft) }},
		{"right output", func(d *Diagram) { d.AddOutput("X", Text("x"), SideRight) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDiagram("A")
			tt.build(d)
			_, err := d.Layout()
			if !errors.Is(err, errors.ErrCodeUnknownComponent) {
				t.Errorf("Layout() error = %v, want %s", err, errors.ErrCodeUnknownComponent)
			}
		})
	}
}

func TestLayoutStyleModifiers(t *testing.T) {
	d := New(DefaultConfig())
	d.AddSystem("A", "Function", Text("A"), TextWidth(2.5), Faded(), Stacked())
	d.AddSystem("B", "ImplicitFunction", Text("B"), Faded())
	_ = d.Connect("A", "B", Text("y"), Faded(), Stacked())
	d.AddInput("A", Text("x_0"), Stacked(), Faded())

	g, err := d.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}

	tests := []struct {
		pos  Position
		want string
	}{
		{Position{1, 0}, `\node [Function,stack,faded,text width=2.5cm] (A) {$A$};`},
		{Position{2, 1}, `\node [ImplicitFunction,faded] (B) {$B$};`},
		{Position{1, 1}, `\node [DataInter,stack,faded] (A-B) {$y$};`},
		{Position{0, 0}, `\node [DataIO,stack] (output_A) {$x_0$};`},
	}
	for _, tt := range tests {
		node, ok := g.At(tt.pos.Row, tt.pos.Col)
		if !ok {
			t.Errorf("At(%d, %d) is empty", tt.pos.Row, tt.pos.Col)
			continue
		}
		if got := node.Markup(); got != tt.want {
			t.Errorf("At(%d, %d).Markup() = %q, want %q", tt.pos.Row, tt.pos.Col, got, tt.want)
		}
	}
}

func TestGridAtOutOfRange(t *testing.T) {
	g, _ := newTestDiagram("A").Layout()
	for _, pos := range []Position{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		if _, ok := g.At(pos.Row, pos.Col); ok {
			t.Errorf("At(%d, %d) ok = true, want false", pos.Row, pos.Col)
		}
	}
}
