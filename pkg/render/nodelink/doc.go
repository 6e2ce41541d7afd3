// Package nodelink renders XDSM diagrams as node-link previews.
//
// # Overview
//
// The TikZ output of an XDSM needs a LaTeX installation before anyone can
// look at it. This package draws the same model with Graphviz instead:
// systems become boxes, connections become labelled arrows and markers
// become plain text at the ends of short arrows. It is meant for checking a
// definition file while editing it, not for publication.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(d, nodelink.Options{Processes: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Conventions
//
//   - The graph is laid out left to right (rankdir=LR)
//   - Fill colours follow the TikZ styles file
//   - Faded systems have a dashed outline and grey text
//   - Stacked systems have a double outline
//   - Process chains, when enabled, are dotted red edges that do not
//     constrain the layout
//
// Labels are shown as raw TeX source; Graphviz does not typeset math.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
