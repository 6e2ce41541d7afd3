package pipeline

import (
	"context"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/render"
	"github.com/matzehuels/xdsm/pkg/render/nodelink"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// Render generates output artifacts in the requested formats.
// Options must have been passed through SetDefaults.
func Render(ctx context.Context, d *xdsm.Diagram, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var doc *xdsm.Document
	var dot string
	var svg []byte

	for _, format := range opts.Formats {
		var err error

		switch format {
		case FormatTikZ, FormatTeX:
			if doc == nil {
				if doc, err = d.Render(opts.RenderOptions()); err != nil {
					return nil, err
				}
			}
			if format == FormatTikZ {
				artifacts[format] = []byte(doc.TikZ)
			} else {
				artifacts[format] = []byte(doc.TeX)
			}
			continue
		case FormatDOT, FormatSVG, FormatPNG:
			if dot == "" {
				if dot, err = nodelink.ToDOT(d, nodelinkOptions(opts)); err != nil {
					return nil, err
				}
			}
			if format == FormatDOT {
				artifacts[format] = []byte(dot)
				continue
			}
			if svg == nil {
				if svg, err = nodelink.RenderSVG(ctx, dot); err != nil {
					return nil, err
				}
			}
			if format == FormatSVG {
				artifacts[format] = svg
				continue
			}
			png, err := render.ToPNG(ctx, svg, opts.PNGScale)
			if err != nil {
				return nil, err
			}
			artifacts[format] = png
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
	}

	return artifacts, nil
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Processes: opts.Processes}
}
