package xdsm

import (
	"strconv"
	"strings"
)

// Default style tags for nodes declared without an explicit style.
const (
	StyleDataInter = "DataInter" // connection nodes
	StyleDataIO    = "DataIO"    // input and output markers
)

// Style modifiers appended to a node's base style.
const (
	modStack = "stack"
	modFaded = "faded"
)

// Option customizes a declared system, connection or marker.
type Option func(*attrs)

// attrs collects the modifiers of a single declaration.
type attrs struct {
	style     string
	stack     bool
	faded     bool
	textWidth float64
}

// WithStyle overrides the base style tag.
func WithStyle(style string) Option {
	return func(a *attrs) { a.style = style }
}

// Stacked draws the node as a stack of cards, denoting several instances.
func Stacked() Option {
	return func(a *attrs) { a.stack = true }
}

// Faded greys the node out to mark an inactive or optional role.
// Markers ignore it.
func Faded() Option {
	return func(a *attrs) { a.faded = true }
}

// TextWidth fixes the node's text width in centimetres. Only systems use it.
func TextWidth(cm float64) Option {
	return func(a *attrs) { a.textWidth = cm }
}

func applyOptions(style string, opts []Option) attrs {
	a := attrs{style: style}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// composeStyle builds the TikZ option list for a node. The order of the
// modifiers is fixed: base, stack, faded, text width.
func composeStyle(base string, stack, faded bool, textWidth float64) string {
	parts := []string{base}
	if stack {
		parts = append(parts, modStack)
	}
	if faded {
		parts = append(parts, modFaded)
	}
	if textWidth > 0 {
		parts = append(parts, "text width="+strconv.FormatFloat(textWidth, 'f', -1, 64)+"cm")
	}
	return strings.Join(parts, ",")
}
