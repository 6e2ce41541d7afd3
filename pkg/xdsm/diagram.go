package xdsm

import (
	"github.com/matzehuels/xdsm/pkg/errors"
)

// Side selects the border column an output marker is drawn in.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide converts "left" or "right" to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	case "":
		return SideLeft, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid output side %q (must be 'left' or 'right')", s)
	}
}

// MarkerKind distinguishes inputs from left and right outputs.
type MarkerKind int

const (
	MarkerInput MarkerKind = iota
	MarkerLeftOutput
	MarkerRightOutput
)

// String returns the kind as used in definition files.
func (k MarkerKind) String() string {
	switch k {
	case MarkerInput:
		return "input"
	case MarkerLeftOutput:
		return "left"
	case MarkerRightOutput:
		return "right"
	default:
		return "unknown"
	}
}

// System is a component on the diagonal.
type System struct {
	Name      string
	Style     string
	Label     Label
	Stack     bool
	Faded     bool
	TextWidth float64 // centimetres; zero leaves the width to the style
}

// Connection is a data dependency drawn at (From's row, To's column).
type Connection struct {
	From  string
	To    string
	Style string
	Label Label
	Stack bool
	Faded bool
}

// NodeName returns the identity of the connection's off-diagonal node.
func (c Connection) NodeName() string {
	return c.From + "-" + c.To
}

// Marker is an input or output attached to one system and drawn on the
// border of the grid.
type Marker struct {
	Component string
	Kind      MarkerKind
	Style     string
	Label     Label
	Stack     bool
}

// NodeName returns the reference name of the marker, usable in a process
// chain: output_<c> for inputs, left_output_<c> and right_output_<c> for
// outputs.
func (m Marker) NodeName() string {
	switch m.Kind {
	case MarkerLeftOutput:
		return "left_output_" + m.Component
	case MarkerRightOutput:
		return "right_output_" + m.Component
	default:
		return "output_" + m.Component
	}
}

// Process is an execution path overlay.
type Process struct {
	Steps []string
	Arrow bool
}

// markerSet keeps at most one marker per component. Replacing a marker keeps
// its original position in the iteration order.
type markerSet struct {
	order []string
	byKey map[string]Marker
}

func (s *markerSet) put(m Marker) {
	if s.byKey == nil {
		s.byKey = make(map[string]Marker)
	}
	if _, ok := s.byKey[m.Component]; !ok {
		s.order = append(s.order, m.Component)
	}
	s.byKey[m.Component] = m
}

func (s *markerSet) len() int { return len(s.order) }

func (s *markerSet) list() []Marker {
	out := make([]Marker, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

// Diagram accumulates the declarations of an XDSM in the order they were made.
type Diagram struct {
	cfg          Config
	systems      []System
	connections  []Connection
	inputs       markerSet
	leftOutputs  markerSet
	rightOutputs markerSet
	processes    []Process
}

// New creates an empty diagram with the given configuration.
func New(cfg Config) *Diagram {
	return &Diagram{cfg: cfg}
}

// NewWithOptions creates an empty diagram from loosely typed options.
// See [ParseOptions] for the accepted keys.
func NewWithOptions(opts map[string]any) (*Diagram, error) {
	cfg, err := ParseOptions(opts)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Config returns the diagram's configuration.
func (d *Diagram) Config() Config { return d.cfg }

// AddSystem appends a component to the diagonal. The system's position is
// its declaration index.
func (d *Diagram) AddSystem(name, style string, label Label, opts ...Option) {
	a := applyOptions(style, opts)
	d.systems = append(d.systems, System{
		Name:      name,
		Style:     a.style,
		Label:     label,
		Stack:     a.stack,
		Faded:     a.faded,
		TextWidth: a.textWidth,
	})
}

// AddInput attaches an input marker to a system, replacing any earlier input
// of the same system. The default style is [StyleDataIO].
func (d *Diagram) AddInput(name string, label Label, opts ...Option) {
	a := applyOptions(StyleDataIO, opts)
	d.inputs.put(Marker{Component: name, Kind: MarkerInput, Style: a.style, Label: label, Stack: a.stack})
}

// AddOutput attaches an output marker to a system on the given side,
// replacing any earlier output of the same system on that side. The default
// style is [StyleDataIO]. Sides other than [SideLeft] and [SideRight] are
// ignored.
func (d *Diagram) AddOutput(name string, label Label, side Side, opts ...Option) {
	a := applyOptions(StyleDataIO, opts)
	m := Marker{Component: name, Style: a.style, Label: label, Stack: a.stack}
	switch side {
	case SideLeft:
		m.Kind = MarkerLeftOutput
		d.leftOutputs.put(m)
	case SideRight:
		m.Kind = MarkerRightOutput
		d.rightOutputs.put(m)
	}
}

// Connect declares that src feeds data to dst. The default style is
// [StyleDataInter]. Connecting a system to itself fails with
// ErrCodeSelfConnection and leaves the diagram unchanged.
func (d *Diagram) Connect(src, dst string, label Label, opts ...Option) error {
	if src == dst {
		return errors.New(errors.ErrCodeSelfConnection, "cannot connect component %q to itself", src)
	}
	a := applyOptions(StyleDataInter, opts)
	d.connections = append(d.connections, Connection{
		From:  src,
		To:    dst,
		Style: a.style,
		Label: label,
		Stack: a.stack,
		Faded: a.faded,
	})
	return nil
}

// AddProcess appends a process chain. Names are resolved when the diagram is
// rendered.
func (d *Diagram) AddProcess(steps []string, arrow bool) {
	d.processes = append(d.processes, Process{
		Steps: append([]string(nil), steps...),
		Arrow: arrow,
	})
}

// Systems returns the declared systems in declaration order.
func (d *Diagram) Systems() []System {
	return append([]System(nil), d.systems...)
}

// Connections returns the declared connections in declaration order.
func (d *Diagram) Connections() []Connection {
	return append([]Connection(nil), d.connections...)
}

// Inputs returns the input markers in first-declaration order.
func (d *Diagram) Inputs() []Marker {
	return d.inputs.list()
}

// Outputs returns the output markers on one side in first-declaration order.
func (d *Diagram) Outputs(side Side) []Marker {
	switch side {
	case SideLeft:
		return d.leftOutputs.list()
	case SideRight:
		return d.rightOutputs.list()
	default:
		return nil
	}
}

// Processes returns the declared process chains.
func (d *Diagram) Processes() []Process {
	out := make([]Process, len(d.processes))
	for i, p := range d.processes {
		out[i] = Process{Steps: append([]string(nil), p.Steps...), Arrow: p.Arrow}
	}
	return out
}

// markers returns inputs, then left outputs, then right outputs.
func (d *Diagram) markers() []Marker {
	out := d.inputs.list()
	out = append(out, d.leftOutputs.list()...)
	return append(out, d.rightOutputs.list()...)
}
