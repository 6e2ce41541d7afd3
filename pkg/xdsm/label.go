package xdsm

import "strings"

// Label is the math-mode text shown inside a node. It is either a single
// line or a stack of lines typeset as a one-column array.
type Label struct {
	lines []string
	multi bool
}

// Text returns a single-line label.
func Text(s string) Label {
	return Label{lines: []string{s}}
}

// Lines returns a multi-line label. Even a single element is rendered as an
// array, matching a list-valued label in a definition file.
func Lines(lines ...string) Label {
	return Label{lines: append([]string(nil), lines...), multi: true}
}

// IsMultiline reports whether l was built with [Lines].
func (l Label) IsMultiline() bool { return l.multi }

// Lines returns a copy of the label's lines.
func (l Label) Lines() []string { return append([]string(nil), l.lines...) }

// Math renders the label in TeX math mode.
func (l Label) Math() string {
	if l.multi {
		return `$\begin{array}{c}` + strings.Join(l.lines, ` \\ `) + `\end{array}$`
	}
	return "$" + strings.Join(l.lines, "") + "$"
}

// String joins the lines with newlines. It is used where TeX is not
// interpreted, such as Graphviz previews.
func (l Label) String() string {
	return strings.Join(l.lines, "\n")
}
