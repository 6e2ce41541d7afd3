package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends the style tag to every system label.
	Detailed bool

	// Processes draws the process chains as dotted edges.
	Processes bool
}

// fillColors mirrors the colours of the TikZ styles file.
var fillColors = map[string]string{
	"Optimization":     "#BFE8C4",
	"SubOptimization":  "#D8F0DA",
	"MDA":              "#FFD6A5",
	"DOE":              "#C9DAF8",
	"Function":         "#D4E7F7",
	"ImplicitFunction": "#E9D7F5",
	"Group":            "#F6E8B1",
	"ImplicitGroup":    "#F3D9A4",
	"Metamodel":        "#F8C8C8",
}

// ToDOT converts a diagram to Graphviz DOT source.
//
// The diagram is laid out first so that the same reference errors that would
// fail a TikZ render fail here too.
func ToDOT(d *xdsm.Diagram, opts Options) (string, error) {
	if _, err := d.Layout(); err != nil {
		return "", err
	}
	chains, err := d.Chains()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph xdsm {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, color=\"#9E9E9E\"];\n")
	buf.WriteString("\n")

	for _, s := range d.Systems() {
		fmt.Fprintf(&buf, "  %q [%s];\n", s.Name, strings.Join(systemAttrs(s, opts.Detailed), ", "))
	}

	inputs := d.Inputs()
	outputs := append(d.Outputs(xdsm.SideLeft), d.Outputs(xdsm.SideRight)...)
	if len(inputs)+len(outputs) > 0 {
		buf.WriteString("\n")
	}
	for _, m := range append(inputs, outputs...) {
		fmt.Fprintf(&buf, "  %q [%s];\n", m.NodeName(), strings.Join(markerAttrs(m), ", "))
	}

	buf.WriteString("\n")
	for _, c := range d.Connections() {
		attrs := []string{fmt.Sprintf("label=%q", c.Label.String())}
		if c.Stack {
			attrs = append(attrs, "penwidth=2")
		}
		if c.Faded {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
	}
	for _, m := range inputs {
		fmt.Fprintf(&buf, "  %q -> %q;\n", m.NodeName(), m.Component)
	}
	for _, m := range outputs {
		fmt.Fprintf(&buf, "  %q -> %q;\n", m.Component, m.NodeName())
	}

	if opts.Processes {
		for i, links := range chains {
			for j := 1; j < len(links); j++ {
				attrs := []string{"style=dotted", "color=red", "constraint=false", fmt.Sprintf("xlabel=\"%d.%d\"", i+1, j)}
				if !isArrow(links[j].Join) {
					attrs = append(attrs, "arrowhead=none")
				}
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", links[j-1].Node, links[j].Node, strings.Join(attrs, ", "))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func systemAttrs(s xdsm.System, detailed bool) []string {
	label := s.Label.String()
	if detailed {
		label += "\n[" + s.Style + "]"
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c, ok := fillColors[s.Style]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if s.Faded {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey50")
	}
	if s.Stack {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

func markerAttrs(m xdsm.Marker) []string {
	attrs := []string{fmt.Sprintf("label=%q", m.Label.String()), "shape=plaintext", "style=\"\""}
	if m.Stack {
		attrs = append(attrs, "fontname=\"Helvetica-Bold\"")
	}
	return attrs
}

func isArrow(j xdsm.Join) bool {
	return j == xdsm.JoinHVArrow || j == xdsm.JoinTipA
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container instead of carrying Graphviz's point-based size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderDiagramSVG is a convenience wrapper around [ToDOT] and [RenderSVG].
func RenderDiagramSVG(ctx context.Context, d *xdsm.Diagram, opts Options) ([]byte, error) {
	dot, err := ToDOT(d, opts)
	if err != nil {
		return nil, err
	}
	return RenderSVG(ctx, dot)
}
