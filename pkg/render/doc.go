// Package render groups the alternative renderers of an XDSM diagram.
//
// The TikZ matrix itself is produced by [xdsm.Diagram.Render]. The
// subpackages here draw the same model in other notations for quick
// previews that do not need a LaTeX toolchain.
//
//   - [nodelink]: Graphviz node-link diagrams (DOT and SVG)
//
// [ToPNG] rasterizes any SVG preview through rsvg-convert.
//
// [xdsm.Diagram.Render]: github.com/matzehuels/xdsm/pkg/xdsm.Diagram.Render
// [nodelink]: github.com/matzehuels/xdsm/pkg/render/nodelink
package render
