package io

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// hclDefinition is the block structure of an HCL definition file.
type hclDefinition struct {
	Options     *hclOptions     `hcl:"options,block"`
	Systems     []hclSystem     `hcl:"system,block"`
	Connections []hclConnection `hcl:"connection,block"`
	Inputs      []hclInput      `hcl:"input,block"`
	Outputs     []hclOutput     `hcl:"output,block"`
	Processes   []hclProcess    `hcl:"process,block"`
}

type hclOptions struct {
	Remain hcl.Body `hcl:",remain"`
}

type hclSystem struct {
	Name      string         `hcl:"name,label"`
	Style     string         `hcl:"style"`
	Label     hcl.Expression `hcl:"label,optional"`
	Stack     bool           `hcl:"stack,optional"`
	Faded     bool           `hcl:"faded,optional"`
	TextWidth float64        `hcl:"text_width,optional"`
}

type hclConnection struct {
	From  string         `hcl:"from,label"`
	To    string         `hcl:"to,label"`
	Label hcl.Expression `hcl:"label"`
	Style string         `hcl:"style,optional"`
	Stack bool           `hcl:"stack,optional"`
	Faded bool           `hcl:"faded,optional"`
}

type hclInput struct {
	System string         `hcl:"system,label"`
	Label  hcl.Expression `hcl:"label"`
	Style  string         `hcl:"style,optional"`
	Stack  bool           `hcl:"stack,optional"`
}

type hclOutput struct {
	System string         `hcl:"system,label"`
	Side   string         `hcl:"side,optional"`
	Label  hcl.Expression `hcl:"label"`
	Style  string         `hcl:"style,optional"`
	Stack  bool           `hcl:"stack,optional"`
}

type hclProcess struct {
	Steps []string `hcl:"steps"`
	Arrow *bool    `hcl:"arrow,optional"`
}

// ReadHCL decodes an HCL definition. filename is used in diagnostics only.
// Labels may be strings or lists of strings; expressions are evaluated
// without variables or functions.
func ReadHCL(src []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, diags, "parse hcl")
	}

	var raw hclDefinition
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, diags, "decode hcl")
	}

	def := &Definition{}
	if raw.Options != nil {
		attrs, diags := raw.Options.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, diags, "decode hcl options")
		}
		def.Options = make(map[string]any, len(attrs))
		for name, attr := range attrs {
			v, err := evalNative(attr.Expr)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "option %s", name)
			}
			def.Options[name] = v
		}
	}

	for _, s := range raw.Systems {
		label, err := evalNative(s.Label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "label of system %s", s.Name)
		}
		def.Systems = append(def.Systems, System{
			Name: s.Name, Style: s.Style, Label: label,
			Stack: s.Stack, Faded: s.Faded, TextWidth: s.TextWidth,
		})
	}
	for _, c := range raw.Connections {
		label, err := evalNative(c.Label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "label of connection %s-%s", c.From, c.To)
		}
		def.Connections = append(def.Connections, Connection{
			From: c.From, To: c.To, Label: label,
			Style: c.Style, Stack: c.Stack, Faded: c.Faded,
		})
	}
	for _, in := range raw.Inputs {
		label, err := evalNative(in.Label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "label of input %s", in.System)
		}
		def.Inputs = append(def.Inputs, Input{System: in.System, Label: label, Style: in.Style, Stack: in.Stack})
	}
	for _, out := range raw.Outputs {
		label, err := evalNative(out.Label)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "label of output %s", out.System)
		}
		def.Outputs = append(def.Outputs, Output{
			System: out.System, Side: out.Side, Label: label,
			Style: out.Style, Stack: out.Stack,
		})
	}
	for _, p := range raw.Processes {
		def.Processes = append(def.Processes, Process{Steps: p.Steps, Arrow: p.Arrow})
	}
	return def, nil
}

// evalNative evaluates a literal expression into a string, bool, float64 or
// []any. A missing optional attribute evaluates to nil.
func evalNative(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(v)
}

func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty.IsListType() || ty.IsTupleType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			native, err := ctyToNative(e)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}

// WriteHCL encodes def as HCL and writes it to w.
func WriteHCL(def *Definition, w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if len(def.Options) > 0 {
		opts := body.AppendNewBlock("options", nil).Body()
		for _, k := range slices.Sorted(maps.Keys(def.Options)) {
			v, err := nativeToCty(def.Options[k])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "option %s", k)
			}
			opts.SetAttributeValue(k, v)
		}
		body.AppendNewline()
	}

	for _, s := range def.Systems {
		b := body.AppendNewBlock("system", []string{s.Name}).Body()
		b.SetAttributeValue("style", cty.StringVal(s.Style))
		if err := setLabel(b, s.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "system %s", s.Name)
		}
		setFlags(b, s.Stack, s.Faded)
		if s.TextWidth > 0 {
			b.SetAttributeValue("text_width", cty.NumberFloatVal(s.TextWidth))
		}
		body.AppendNewline()
	}

	for _, c := range def.Connections {
		b := body.AppendNewBlock("connection", []string{c.From, c.To}).Body()
		if err := setLabel(b, c.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "connection %s-%s", c.From, c.To)
		}
		setStyle(b, c.Style)
		setFlags(b, c.Stack, c.Faded)
		body.AppendNewline()
	}

	for _, in := range def.Inputs {
		b := body.AppendNewBlock("input", []string{in.System}).Body()
		if err := setLabel(b, in.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "input %s", in.System)
		}
		setStyle(b, in.Style)
		setFlags(b, in.Stack, false)
		body.AppendNewline()
	}

	for _, out := range def.Outputs {
		b := body.AppendNewBlock("output", []string{out.System}).Body()
		if out.Side != "" {
			b.SetAttributeValue("side", cty.StringVal(out.Side))
		}
		if err := setLabel(b, out.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDefinition, err, "output %s", out.System)
		}
		setStyle(b, out.Style)
		setFlags(b, out.Stack, false)
		body.AppendNewline()
	}

	for _, p := range def.Processes {
		b := body.AppendNewBlock("process", nil).Body()
		steps := make([]cty.Value, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = cty.StringVal(s)
		}
		b.SetAttributeValue("steps", cty.TupleVal(steps))
		if p.Arrow != nil {
			b.SetAttributeValue("arrow", cty.BoolVal(*p.Arrow))
		}
		body.AppendNewline()
	}

	if _, err := w.Write(f.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write hcl")
	}
	return nil
}

func setLabel(b *hclwrite.Body, label any) error {
	if label == nil {
		return nil
	}
	v, err := nativeToCty(label)
	if err != nil {
		return err
	}
	b.SetAttributeValue("label", v)
	return nil
}

func setStyle(b *hclwrite.Body, style string) {
	if style != "" {
		b.SetAttributeValue("style", cty.StringVal(style))
	}
}

func setFlags(b *hclwrite.Body, stack, faded bool) {
	if stack {
		b.SetAttributeValue("stack", cty.True)
	}
	if faded {
		b.SetAttributeValue("faded", cty.True)
	}
}

func nativeToCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case []string:
		elems := make([]cty.Value, len(t))
		for i, s := range t {
			elems[i] = cty.StringVal(s)
		}
		return cty.TupleVal(elems), nil
	case []any:
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			ev, err := nativeToCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}
