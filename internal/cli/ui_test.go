package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/xdsm/pkg/xdsm"
)

func TestGridTable(t *testing.T) {
	d := xdsm.New(xdsm.DefaultConfig())
	d.AddSystem("opt", "Optimization", xdsm.Text("x"))
	d.AddSystem("F", "Function", xdsm.Text("F"))
	for _, label := range []string{"a", "b"} {
		if err := d.Connect("opt", "F", xdsm.Text(label)); err != nil {
			t.Fatal(err)
		}
	}
	d.AddInput("opt", xdsm.Text("x_0"))

	grid, err := d.Layout()
	if err != nil {
		t.Fatal(err)
	}
	got := gridTable(grid)
	for _, want := range []string{"opt", "F", "output_opt", "opt-F " + iconWarning} {
		if !strings.Contains(got, want) {
			t.Errorf("gridTable() missing %q:\n%s", want, got)
		}
	}
	// header row plus one line per grid row, framed by a top and bottom border
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if want := grid.Size() + 4; len(lines) != want {
		t.Errorf("gridTable() has %d lines, want %d:\n%s", len(lines), want, got)
	}
}

func TestPrintStats(t *testing.T) {
	buf := captureOutput(t)
	printStats(1, 0, 2, false)

	got := buf.String()
	for _, want := range []string{"1 system", "0 connections", "2×2 grid", iconFresh} {
		if !strings.Contains(got, want) {
			t.Errorf("printStats() missing %q: %q", want, got)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 files"},
		{1, "1 file"},
		{3, "3 files"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "file"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
