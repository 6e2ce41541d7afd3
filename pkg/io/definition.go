package io

import (
	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// Definition is the file representation of a diagram.
type Definition struct {
	Options     map[string]any `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty"`
	Systems     []System       `json:"systems" toml:"systems" yaml:"systems"`
	Connections []Connection   `json:"connections,omitempty" toml:"connections,omitempty" yaml:"connections,omitempty"`
	Inputs      []Input        `json:"inputs,omitempty" toml:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []Output       `json:"outputs,omitempty" toml:"outputs,omitempty" yaml:"outputs,omitempty"`
	Processes   []Process      `json:"processes,omitempty" toml:"processes,omitempty" yaml:"processes,omitempty"`
}

// System declares a diagonal component.
type System struct {
	Name      string  `json:"name" toml:"name" yaml:"name"`
	Style     string  `json:"style" toml:"style" yaml:"style"`
	Label     any     `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Stack     bool    `json:"stack,omitempty" toml:"stack,omitempty" yaml:"stack,omitempty"`
	Faded     bool    `json:"faded,omitempty" toml:"faded,omitempty" yaml:"faded,omitempty"`
	TextWidth float64 `json:"text_width,omitempty" toml:"text_width,omitempty" yaml:"text_width,omitempty"`
}

// Connection declares a data dependency between two systems.
type Connection struct {
	From  string `json:"from" toml:"from" yaml:"from"`
	To    string `json:"to" toml:"to" yaml:"to"`
	Label any    `json:"label" toml:"label" yaml:"label"`
	Style string `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty"`
	Stack bool   `json:"stack,omitempty" toml:"stack,omitempty" yaml:"stack,omitempty"`
	Faded bool   `json:"faded,omitempty" toml:"faded,omitempty" yaml:"faded,omitempty"`
}

// Input declares an input marker above a system.
type Input struct {
	System string `json:"system" toml:"system" yaml:"system"`
	Label  any    `json:"label" toml:"label" yaml:"label"`
	Style  string `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty"`
	Stack  bool   `json:"stack,omitempty" toml:"stack,omitempty" yaml:"stack,omitempty"`
}

// Output declares an output marker beside a system.
type Output struct {
	System string `json:"system" toml:"system" yaml:"system"`
	Side   string `json:"side,omitempty" toml:"side,omitempty" yaml:"side,omitempty"`
	Label  any    `json:"label" toml:"label" yaml:"label"`
	Style  string `json:"style,omitempty" toml:"style,omitempty" yaml:"style,omitempty"`
	Stack  bool   `json:"stack,omitempty" toml:"stack,omitempty" yaml:"stack,omitempty"`
}

// Process declares a process chain. A nil Arrow means true.
type Process struct {
	Steps []string `json:"steps" toml:"steps" yaml:"steps"`
	Arrow *bool    `json:"arrow,omitempty" toml:"arrow,omitempty" yaml:"arrow,omitempty"`
}

// ToDiagram builds and validates a diagram from a definition.
//
// The returned diagram has been laid out and its process chains resolved
// once, so rendering it cannot fail on a reference error.
func ToDiagram(def *Definition) (*xdsm.Diagram, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition is empty")
	}
	if len(def.Systems) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition declares no systems")
	}

	d, err := xdsm.NewWithOptions(def.Options)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(def.Systems))
	for i, s := range def.Systems {
		if err := errors.ValidateName(s.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "system #%d", i+1)
		}
		if seen[s.Name] {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "system %q is declared twice", s.Name)
		}
		seen[s.Name] = true
		if s.Style == "" {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "system %q has no style", s.Name)
		}
		if s.TextWidth < 0 {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "system %q has a negative text width", s.Name)
		}

		label := xdsm.Text(s.Name)
		if s.Label != nil {
			if label, err = labelFromAny(s.Label, "system "+s.Name); err != nil {
				return nil, err
			}
		}
		d.AddSystem(s.Name, s.Style, label, systemOptions(s)...)
	}

	for _, c := range def.Connections {
		label, err := labelFromAny(c.Label, "connection "+c.From+"-"+c.To)
		if err != nil {
			return nil, err
		}
		if err := d.Connect(c.From, c.To, label, markerOptions(c.Style, c.Stack, c.Faded)...); err != nil {
			return nil, err
		}
	}

	for _, in := range def.Inputs {
		label, err := labelFromAny(in.Label, "input of "+in.System)
		if err != nil {
			return nil, err
		}
		d.AddInput(in.System, label, markerOptions(in.Style, in.Stack, false)...)
	}

	for _, out := range def.Outputs {
		side, err := xdsm.ParseSide(out.Side)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "output of %s", out.System)
		}
		label, err := labelFromAny(out.Label, "output of "+out.System)
		if err != nil {
			return nil, err
		}
		d.AddOutput(out.System, label, side, markerOptions(out.Style, out.Stack, false)...)
	}

	for i, p := range def.Processes {
		if len(p.Steps) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "process #%d has no steps", i+1)
		}
		arrow := true
		if p.Arrow != nil {
			arrow = *p.Arrow
		}
		d.AddProcess(p.Steps, arrow)
	}

	if _, err := d.Layout(); err != nil {
		return nil, err
	}
	if _, err := d.Chains(); err != nil {
		return nil, err
	}
	return d, nil
}

// FromDiagram converts a diagram back into its file representation.
// Default styles are omitted.
func FromDiagram(d *xdsm.Diagram) *Definition {
	def := &Definition{
		Options: map[string]any{xdsm.OptionUseSFMath: d.Config().UseSFMath},
	}

	for _, s := range d.Systems() {
		def.Systems = append(def.Systems, System{
			Name:      s.Name,
			Style:     s.Style,
			Label:     labelToAny(s.Label),
			Stack:     s.Stack,
			Faded:     s.Faded,
			TextWidth: s.TextWidth,
		})
	}
	for _, c := range d.Connections() {
		def.Connections = append(def.Connections, Connection{
			From:  c.From,
			To:    c.To,
			Label: labelToAny(c.Label),
			Style: nonDefault(c.Style, xdsm.StyleDataInter),
			Stack: c.Stack,
			Faded: c.Faded,
		})
	}
	for _, m := range d.Inputs() {
		def.Inputs = append(def.Inputs, Input{
			System: m.Component,
			Label:  labelToAny(m.Label),
			Style:  nonDefault(m.Style, xdsm.StyleDataIO),
			Stack:  m.Stack,
		})
	}
	for _, side := range []xdsm.Side{xdsm.SideLeft, xdsm.SideRight} {
		for _, m := range d.Outputs(side) {
			def.Outputs = append(def.Outputs, Output{
				System: m.Component,
				Side:   string(side),
				Label:  labelToAny(m.Label),
				Style:  nonDefault(m.Style, xdsm.StyleDataIO),
				Stack:  m.Stack,
			})
		}
	}
	for _, p := range d.Processes() {
		arrow := p.Arrow
		def.Processes = append(def.Processes, Process{Steps: p.Steps, Arrow: &arrow})
	}
	return def
}

func systemOptions(s System) []xdsm.Option {
	var opts []xdsm.Option
	if s.Stack {
		opts = append(opts, xdsm.Stacked())
	}
	if s.Faded {
		opts = append(opts, xdsm.Faded())
	}
	if s.TextWidth > 0 {
		opts = append(opts, xdsm.TextWidth(s.TextWidth))
	}
	return opts
}

func markerOptions(style string, stack, faded bool) []xdsm.Option {
	var opts []xdsm.Option
	if style != "" {
		opts = append(opts, xdsm.WithStyle(style))
	}
	if stack {
		opts = append(opts, xdsm.Stacked())
	}
	if faded {
		opts = append(opts, xdsm.Faded())
	}
	return opts
}

func nonDefault(style, def string) string {
	if style == def {
		return ""
	}
	return style
}

// labelFromAny converts a decoded label (a string or a list of strings) to a
// Label.
func labelFromAny(v any, owner string) (xdsm.Label, error) {
	switch l := v.(type) {
	case nil:
		return xdsm.Label{}, errors.New(errors.ErrCodeInvalidDefinition, "%s has no label", owner)
	case string:
		return xdsm.Text(l), nil
	case []string:
		return xdsm.Lines(l...), nil
	case []any:
		lines := make([]string, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return xdsm.Label{}, errors.New(errors.ErrCodeInvalidDefinition,
					"%s: label line %d must be a string, got %T", owner, i+1, e)
			}
			lines[i] = s
		}
		return xdsm.Lines(lines...), nil
	default:
		return xdsm.Label{}, errors.New(errors.ErrCodeInvalidDefinition,
			"%s: label must be a string or a list of strings, got %T", owner, v)
	}
}

func labelToAny(l xdsm.Label) any {
	if l.IsMultiline() {
		return l.Lines()
	}
	return l.String()
}
