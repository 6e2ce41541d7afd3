package xdsm

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/matzehuels/xdsm/pkg/buildinfo"
	"github.com/matzehuels/xdsm/pkg/errors"
)

// DefaultStylesPath is the \input path of the styles file when none is given.
// LaTeX appends the .tikz extension.
const DefaultStylesPath = "diagram_styles"

// StylesFileName is the file name the styles should be written under so that
// DefaultStylesPath resolves.
const StylesFileName = "diagram_styles.tikz"

// StylesFile holds the TikZ style definitions every diagram depends on:
// node styles (Optimization, Function, DataIO, ...), the stack and faded
// modifiers, the data and process layers and the process join styles.
//
//go:embed diagram_styles.tikz
var StylesFile []byte

// RenderOptions controls template substitution.
type RenderOptions struct {
	// StylesPath is the \input path of the styles file. Defaults to DefaultStylesPath.
	StylesPath string

	// TikZPath is the path the document wrapper \inputs. Defaults to "xdsm.tikz".
	TikZPath string

	// Version is recorded in the document header. Defaults to buildinfo.Version.
	Version string
}

func (o *RenderOptions) setDefaults() {
	if o.StylesPath == "" {
		o.StylesPath = DefaultStylesPath
	}
	// MiKTeX needs forward slashes.
	o.StylesPath = strings.ReplaceAll(o.StylesPath, `\`, "/")
	if o.TikZPath == "" {
		o.TikZPath = "xdsm.tikz"
	}
	o.TikZPath = strings.ReplaceAll(o.TikZPath, `\`, "/")
	if o.Version == "" {
		o.Version = buildinfo.Version
	}
}

// Document is the rendered output of a diagram.
type Document struct {
	// TikZ is the standalone tikzpicture.
	TikZ string

	// TeX is the article wrapper that \inputs the tikzpicture.
	TeX string

	// Grid is the placement grid the TikZ matrix was built from.
	Grid *Grid
}

type templateData struct {
	Nodes            string
	Edges            string
	Process          string
	StylesPath       string
	TikZPath         string
	OptionalPackages string
	Version          string
}

var (
	tikzTemplate = template.Must(template.New("tikz").Delims("<<", ">>").Parse(tikzPictureSource))
	texTemplate  = template.Must(template.New("tex").Delims("<<", ">>").Parse(texDocumentSource))
)

// Render lays out the diagram and fills the tikzpicture and document
// templates. Rendering does not modify the diagram and is deterministic:
// the same diagram and options always produce identical output.
func (d *Diagram) Render(opts RenderOptions) (*Document, error) {
	opts.setDefaults()

	grid, err := d.Layout()
	if err != nil {
		return nil, err
	}
	process, err := d.ProcessChains()
	if err != nil {
		return nil, err
	}

	data := templateData{
		Nodes:            grid.String(),
		Edges:            d.Edges().String(),
		Process:          process,
		StylesPath:       opts.StylesPath,
		TikZPath:         opts.TikZPath,
		OptionalPackages: strings.Join(d.cfg.OptionalPackages(), ","),
		Version:          opts.Version,
	}

	var tikz, tex strings.Builder
	if err := tikzTemplate.Execute(&tikz, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "execute tikz template")
	}
	if err := texTemplate.Execute(&tex, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "execute tex template")
	}

	return &Document{TikZ: tikz.String(), TeX: tex.String(), Grid: grid}, nil
}
