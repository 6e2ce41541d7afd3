// Package pipeline provides the load → render → write → build pipeline for
// XDSM diagrams.
//
// The CLI, the watcher and the HTTP API all go through a [Runner], so the
// same definition produces the same artifacts whichever entry point is used.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: decode a definition file and build the diagram
//  2. Render: produce artifacts (tikz, tex, dot, svg, png), cached by
//     content hash
//  3. Write: store the artifacts next to each other under an output prefix,
//     together with the styles file the document inputs
//  4. Build: typeset the document with pdflatex
//
// Write and Build only run when [Options.Output] is set.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.ExecuteFile(ctx, "kitchen_sink.toml", pipeline.Options{
//	    Formats: []string{"tikz", "tex"},
//	    Build:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Files)
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xdsm/pkg/buildinfo"
	"github.com/matzehuels/xdsm/pkg/cache"
	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/typeset"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watcher
// =============================================================================

const (
	// DefaultName is the document name used when no output prefix is set.
	DefaultName = "xdsm"

	// DefaultPNGScale is the zoom factor of PNG previews.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatTikZ = "tikz"
	FormatTeX  = "tex"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// AllFormats lists the output formats in the order they are written.
var AllFormats = []string{FormatTikZ, FormatTeX, FormatDOT, FormatSVG, FormatPNG}

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{FormatTikZ, FormatTeX}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTikZ: true,
	FormatTeX:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats    []string `json:"formats,omitempty"`
	StylesPath string   `json:"styles_path,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`  // Append style tags to node-link labels
	Processes  bool     `json:"processes,omitempty"` // Draw process chains in node-link previews
	PNGScale   float64  `json:"png_scale,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // Ignore cached artifacts

	// Output options (not serialized)
	Output     string `json:"-"` // Output prefix; <prefix>.<format> is written for every artifact
	Build      bool   `json:"-"` // Typeset <prefix>.tex
	Cleanup    bool   `json:"-"` // Remove typesetting byproducts
	Quiet      bool   `json:"-"` // Run the typesetter in batch mode
	TeXCommand string `json:"-"`

	// Runtime options (not serialized)
	Version string      `json:"-"`
	Logger  *log.Logger `json:"-"`
	Stdout  io.Writer   `json:"-"` // Receives typesetter output when set

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the diagram the artifacts were rendered from.
	Diagram *xdsm.Diagram

	// DiagramHash is the content hash of the canonical definition.
	DiagramHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Collisions lists connections that were overwritten in the grid.
	Collisions []xdsm.Collision

	// Files lists the files written, in write order.
	Files []string

	// Typeset is set when the document was built.
	Typeset *typeset.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Systems     int
	Connections int
	GridSize    int
	LoadTime    time.Duration
	RenderTime  time.Duration
	BuildTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults sets default values. Requested formats are deduplicated and
// put in write order; building adds the tikz and tex formats.
func (o *Options) SetDefaults() {
	requested := o.Formats
	if len(requested) == 0 {
		requested = DefaultFormats
	}
	if o.Build {
		requested = append(slices.Clone(requested), FormatTikZ, FormatTeX)
	}
	var formats []string
	for _, f := range AllFormats {
		if slices.Contains(requested, f) {
			formats = append(formats, f)
		}
	}
	for _, f := range requested {
		if !ValidFormats[f] && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats

	if o.StylesPath == "" {
		o.StylesPath = xdsm.DefaultStylesPath
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.TeXCommand == "" {
		o.TeXCommand = typeset.DefaultCommand
	}
	if o.Version == "" {
		o.Version = buildinfo.Version
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options without applying defaults.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	if o.Output != "" {
		if err := errors.ValidatePrefix(o.Output); err != nil {
			return err
		}
	}
	if o.Build && o.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "building a pdf requires an output prefix")
	}
	return nil
}

// Name returns the document name: the base name of the output prefix, or
// DefaultName.
func (o *Options) Name() string {
	if o.Output == "" {
		return DefaultName
	}
	return filepath.Base(filepath.FromSlash(o.Output))
}

// TikZPath returns the path the tex document inputs.
func (o *Options) TikZPath() string {
	return o.Name() + "." + FormatTikZ
}

// RenderOptions returns the options of the TikZ renderer.
func (o *Options) RenderOptions() xdsm.RenderOptions {
	return xdsm.RenderOptions{
		StylesPath: o.InputStylesPath(),
		TikZPath:   o.TikZPath(),
		Version:    o.Version,
	}
}

// InputStylesPath returns the styles path as the document inputs it. The
// engine runs in the output directory, so a relative custom path is rewritten
// relative to that directory.
func (o *Options) InputStylesPath() string {
	p := o.StylesPath
	if o.Output == "" || p == "" || p == xdsm.DefaultStylesPath || filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	dir, err := filepath.Abs(filepath.Dir(filepath.FromSlash(o.Output)))
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// WritesStyles reports whether the embedded styles file is written next to
// the outputs. A custom styles path points at the user's own file.
func (o *Options) WritesStyles() bool {
	return o.StylesPath == xdsm.DefaultStylesPath &&
		(slices.Contains(o.Formats, FormatTikZ) || slices.Contains(o.Formats, FormatTeX))
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only the options that change the given format are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatTikZ, FormatTeX:
		k.StylesPath = o.InputStylesPath()
		k.TikZPath = o.TikZPath()
		k.Version = o.Version
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
		k.Processes = o.Processes
	case FormatPNG:
		k.Detailed = o.Detailed
		k.Processes = o.Processes
		k.Scale = o.PNGScale
	}
	return k
}

// OutputPath returns the file an artifact of the given format is written to.
func (o *Options) OutputPath(format string) string {
	return o.Output + "." + format
}

// String describes the options for log lines.
func (o Options) String() string {
	return fmt.Sprintf("formats=%s output=%q build=%t", strings.Join(o.Formats, ","), o.Output, o.Build)
}
