package xdsm

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/xdsm/pkg/errors"
)

func TestConnectSelfFails(t *testing.T) {
	for _, name := range []string{"A", "opt", "", "left_output_opt"} {
		t.Run(name, func(t *testing.T) {
			d := newTestDiagram("A", "opt")
			err := d.Connect(name, name, Text("x"))
			if !errors.Is(err, errors.ErrCodeSelfConnection) {
				t.Errorf("Connect(%q, %q) error = %v, want %s", name, name, err, errors.ErrCodeSelfConnection)
			}
			if n := len(d.Connections()); n != 0 {
				t.Errorf("len(Connections()) = %d after failed Connect, want 0", n)
			}
		})
	}
}

func TestConnectDefaults(t *testing.T) {
	d := newTestDiagram("A", "B")
	if err := d.Connect("A", "B", Text("y")); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := d.Connect("B", "A", Text("z"), WithStyle("DataIO"), Stacked()); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	got := d.Connections()
	want := []Connection{
		{From: "A", To: "B", Style: StyleDataInter, Label: Text("y")},
		{From: "B", To: "A", Style: "DataIO", Label: Text("z"), Stack: true},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Label{})); diff != "" {
		t.Errorf("Connections() mismatch (-want +got):\n%s", diff)
	}
}

func TestAddInputReplacesInPlace(t *testing.T) {
	d := newTestDiagram("A", "B")
	d.AddInput("A", Text("a_1"))
	d.AddInput("B", Text("b"))
	d.AddInput("A", Text("a_2"), Stacked())

	inputs := d.Inputs()
	if len(inputs) != 2 {
		t.Fatalf("len(Inputs()) = %d, want 2", len(inputs))
	}
	if inputs[0].Component != "A" || inputs[0].Label.Math() != "$a_2$" || !inputs[0].Stack {
		t.Errorf("Inputs()[0] = %+v, want replaced input of A in first position", inputs[0])
	}
	if inputs[1].Component != "B" {
		t.Errorf("Inputs()[1].Component = %q, want B", inputs[1].Component)
	}
}

func TestAddOutputSidesAreIndependent(t *testing.T) {
	d := newTestDiagram("A")
	d.AddOutput("A", Text("l"), SideLeft)
	d.AddOutput("A", Text("r"), SideRight)
	d.AddOutput("A", Text("l_2"), SideLeft)
	d.AddOutput("A", Text("ignored"), Side("top"))

	left := d.Outputs(SideLeft)
	right := d.Outputs(SideRight)
	if len(left) != 1 || left[0].Label.Math() != "$l_2$" || left[0].NodeName() != "left_output_A" {
		t.Errorf("Outputs(left) = %+v", left)
	}
	if len(right) != 1 || right[0].Label.Math() != "$r$" || right[0].NodeName() != "right_output_A" {
		t.Errorf("Outputs(right) = %+v", right)
	}
	if got := d.Outputs(Side("top")); got != nil {
		t.Errorf("Outputs(top) = %v, want nil", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	d := newTestDiagram("A", "B")
	d.AddProcess([]string{"A", "B"}, true)

	systems := d.Systems()
	systems[0].Name = "mutated"
	procs := d.Processes()
	procs[0].Steps[0] = "mutated"

	if d.Systems()[0].Name != "A" {
		t.Error("Systems() should return a copy")
	}
	if d.Processes()[0].Steps[0] != "A" {
		t.Error("Processes() should return a deep copy")
	}
}

func TestAddProcessCopiesSteps(t *testing.T) {
	d := newTestDiagram("A", "B")
	steps := []string{"A", "B"}
	d.AddProcess(steps, false)
	steps[0] = "X"

	if got := d.Processes()[0].Steps[0]; got != "A" {
		t.Errorf("Processes()[0].Steps[0] = %q, want A", got)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"left", SideLeft, false},
		{"right", SideRight, false},
		{"", SideLeft, false},
		{"top", "", true},
		{"Left", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSide(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkerKindString(t *testing.T) {
	tests := map[MarkerKind]string{
		MarkerInput:       "input",
		MarkerLeftOutput:  "left",
		MarkerRightOutput: "right",
		MarkerKind(42):    "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("MarkerKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
