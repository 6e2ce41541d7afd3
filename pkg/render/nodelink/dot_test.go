package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

func testDiagram() *xdsm.Diagram {
	d := xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("opt", "Optimization", xdsm.Text(`\text{Optimizer}`))
	d.AddSystem("F", "Function", xdsm.Lines("F", "G"), xdsm.Stacked())
	d.AddSystem("D", "ImplicitFunction", xdsm.Text("D"), xdsm.Faded())
	_ = d.Connect("opt", "F", xdsm.Text("x"))
	_ = d.Connect("F", "opt", xdsm.Text("f"), xdsm.Faded())
	d.AddInput("opt", xdsm.Text("x_0"))
	d.AddOutput("F", xdsm.Text("f^*"), xdsm.SideRight)
	d.AddProcess([]string{"opt", "F", "opt"}, true)
	d.AddProcess([]string{"F", "D"}, false)
	return d
}

func TestToDOT(t *testing.T) {
	dot, err := ToDOT(testDiagram(), Options{})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}

	for _, want := range []string{
		"digraph xdsm {",
		"rankdir=LR;",
		`"opt" [label="\\text{Optimizer}", fillcolor="#BFE8C4"];`,
		`"F" [label="F\nG", fillcolor="#D4E7F7", peripheries=2];`,
		`"D" [label="D", fillcolor="#E9D7F5", style="rounded,filled,dashed", fontcolor=grey50];`,
		`"output_opt" [label="x_0", shape=plaintext, style=""];`,
		`"right_output_F" [label="f^*", shape=plaintext, style=""];`,
		`"opt" -> "F" [label="x"];`,
		`"F" -> "opt" [label="f", style=dashed];`,
		`"output_opt" -> "opt";`,
		`"F" -> "right_output_F";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	if strings.Contains(dot, "dotted") {
		t.Error("ToDOT() without Processes should not draw process edges")
	}
}

func TestToDOTProcesses(t *testing.T) {
	dot, err := ToDOT(testDiagram(), Options{Processes: true})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	for _, want := range []string{
		`"opt" -> "F" [style=dotted, color=red, constraint=false, xlabel="1.1"];`,
		`"F" -> "opt" [style=dotted, color=red, constraint=false, xlabel="1.2"];`,
		`"F" -> "D" [style=dotted, color=red, constraint=false, xlabel="2.1", arrowhead=none];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot, err := ToDOT(testDiagram(), Options{Detailed: true})
	if err != nil {
		t.Fatalf("ToDOT() error: %v", err)
	}
	if want := `label="\\text{Optimizer}\n[Optimization]"`; !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing %q", want)
	}
}

func TestToDOTErrors(t *testing.T) {
	d := xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("A", "Function", xdsm.Text("A"))
	d.AddProcess([]string{"A", "B"}, true)
	if _, err := ToDOT(d, Options{}); !errors.Is(err, errors.ErrCodeUnknownReference) {
		t.Errorf("ToDOT() error = %v, want %s", err, errors.ErrCodeUnknownReference)
	}

	d = xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("A", "Function", xdsm.Text("A"))
	d.AddInput("B", xdsm.Text("b"))
	if _, err := ToDOT(d, Options{}); !errors.Is(err, errors.ErrCodeUnknownComponent) {
		t.Errorf("ToDOT() error = %v, want %s", err, errors.ErrCodeUnknownComponent)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a, _ := ToDOT(testDiagram(), Options{Processes: true})
	b, _ := ToDOT(testDiagram(), Options{Processes: true})
	if a != b {
		t.Error("ToDOT() output differs between calls")
	}
}

func TestRenderDiagramSVG(t *testing.T) {
	svg, err := RenderDiagramSVG(context.Background(), testDiagram(), Options{Processes: true})
	if err != nil {
		t.Fatalf("RenderDiagramSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("RenderDiagramSVG() output is not SVG: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() without viewBox = %q, want unchanged", got)
	}
}
