package xdsm

import (
	"slices"
	"testing"
)

func TestLabelMath(t *testing.T) {
	tests := []struct {
		name  string
		label Label
		want  string
		multi bool
	}{
		{"plain", Text("x"), "$x$", false},
		{"empty", Text(""), "$$", false},
		{"tex", Text(`\text{Optimizer}`), `$\text{Optimizer}$`, false},
		{"two lines", Lines("a", "b"), `$\begin{array}{c}a \\ b\end{array}$`, true},
		{"one line list", Lines("a"), `$\begin{array}{c}a\end{array}$`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.label.Math(); got != tt.want {
				t.Errorf("Math() = %q, want %q", got, tt.want)
			}
			if got := tt.label.IsMultiline(); got != tt.multi {
				t.Errorf("IsMultiline() = %v, want %v", got, tt.multi)
			}
		})
	}
}

func TestLabelLinesCopy(t *testing.T) {
	src := []string{"a", "b"}
	l := Lines(src...)
	src[0] = "z"
	got := l.Lines()
	got[1] = "z"

	if want := []string{"a", "b"}; !slices.Equal(l.Lines(), want) {
		t.Errorf("Lines() = %v, want %v", l.Lines(), want)
	}
	if s := l.String(); s != "a\nb" {
		t.Errorf("String() = %q, want %q", s, "a\nb")
	}
}

func TestComposeStyle(t *testing.T) {
	tests := []struct {
		base         string
		stack, faded bool
		width        float64
		want         string
	}{
		{"Function", false, false, 0, "Function"},
		{"Function", true, false, 0, "Function,stack"},
		{"Function", false, true, 0, "Function,faded"},
		{"MDA", true, true, 4, "MDA,stack,faded,text width=4cm"},
		{"Group", false, false, 1.25, "Group,text width=1.25cm"},
	}
	for _, tt := range tests {
		if got := composeStyle(tt.base, tt.stack, tt.faded, tt.width); got != tt.want {
			t.Errorf("composeStyle(%q, %v, %v, %v) = %q, want %q", tt.base, tt.stack, tt.faded, tt.width, got, tt.want)
		}
	}
}
