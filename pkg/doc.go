// Package pkg provides the core libraries for rendering XDSM diagrams.
//
// # Overview
//
// An Extended Design Structure Matrix (XDSM) shows the components of a
// multidisciplinary design optimization process on a diagonal, the data they
// exchange in the off-diagonal cells and the order of execution as process
// lines on top. The pkg directory turns a declarative description of such a
// process into a TikZ picture and a standalone LaTeX document.
//
// # Architecture
//
// The typical data flow:
//
//	Definition file (TOML, YAML, JSON, HCL)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [xdsm] package (grid layout, edges, process chains, templates)
//	         ↓
//	    TikZ / TeX / DOT / SVG / PNG output
//	         ↓
//	    [typeset] package (pdflatex, optional)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/xdsm/pkg/xdsm"
//	)
//
//	d := xdsm.New(xdsm.DefaultConfig())
//	d.AddSystem("opt", "Optimization", xdsm.Text(`\text{Optimizer}`))
//	d.AddSystem("F", "Function", xdsm.Text("F"))
//	_ = d.Connect("opt", "F", xdsm.Text("x"))
//	_ = d.Connect("F", "opt", xdsm.Text("f"))
//	d.AddProcess([]string{"opt", "F", "opt"}, true)
//
//	doc, _ := d.Render(xdsm.RenderOptions{})
//	fmt.Println(doc.TikZ)
//
// # Main Packages
//
// ## Diagram Model
//
// [xdsm] - The diagram model and its renderer: systems, connections, input
// and output markers, process chains, the placement grid, the edge and
// process layers and the TikZ and LaTeX templates.
//
// [io] - Definition files in four formats and their conversion to and from
// [xdsm.Diagram].
//
// ## Output
//
// [render] - Previews that do not need LaTeX. [render/nodelink] draws the
// diagram as a Graphviz node-link graph (DOT, SVG); [render.ToPNG]
// rasterizes an SVG.
//
// [typeset] - Runs the LaTeX engine on a rendered document and cleans up its
// byproducts.
//
// ## Infrastructure
//
// [pipeline] - The complete render pipeline (load → render → write → build)
// used by the CLI and the HTTP server, with artifact caching.
//
// [cache] - Artifact caches keyed by the diagram hash: file (CLI), Redis
// (shared) and a null cache.
//
// [store] - Persistent diagram definitions: memory, file and MongoDB.
//
// [observability] - Hooks for metrics and tracing around the pipeline, the
// cache and the HTTP server.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/xdsm/...               # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [xdsm]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/xdsm
// [xdsm.Diagram]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/xdsm#Diagram
// [io]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/render/nodelink
// [render.ToPNG]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/render#ToPNG
// [typeset]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/typeset
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/xdsm/pkg/buildinfo
package pkg
