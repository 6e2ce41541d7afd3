package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/pipeline"
)

// typesetLogLines is how much of a failed typesetter run is shown.
const typesetLogLines = 8

// typesetOut receives the typesetter's console output unless --quiet is set.
var typesetOut io.Writer = os.Stderr

// renderFlags holds the flags shared by render, watch and diagrams render.
type renderFlags struct {
	opts    pipeline.Options
	formats string
	noCache bool
	summary bool
}

// addRenderFlags registers the pipeline flags on cmd.
func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): tikz, tex (default), dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&f.opts.Output, "output", "o", "", "output prefix; <prefix>.<format> is written (default: input path without extension)")
	cmd.Flags().BoolVarP(&f.opts.Build, "build", "b", false, "typeset the document with pdflatex")
	cmd.Flags().BoolVar(&f.opts.Cleanup, "cleanup", true, "remove typesetting byproducts (.aux, .log, ...)")
	cmd.Flags().BoolVarP(&f.opts.Quiet, "quiet", "q", false, "run the typesetter in batch mode and hide its output")
	cmd.Flags().StringVar(&f.opts.TeXCommand, "tex-command", "", "typesetting engine (default pdflatex)")
	cmd.Flags().StringVar(&f.opts.StylesPath, "styles", "", "styles file the document inputs (default: bundled diagram_styles)")
	cmd.Flags().BoolVar(&f.opts.Detailed, "detailed", false, "append styles to node-link preview labels (dot, svg, png)")
	cmd.Flags().BoolVar(&f.opts.Processes, "processes", false, "draw process chains in node-link previews (dot, svg, png)")
	cmd.Flags().Float64Var(&f.opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "zoom factor of PNG previews")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "print the placement grid")
}

// options resolves the flags and config file into pipeline options.
func (f *renderFlags) options(cmd *cobra.Command, cfg RenderConfig) (pipeline.Options, error) {
	opts := f.opts
	opts.Formats = parseFormats(f.formats)
	applyRenderConfig(cmd, cfg, &opts)
	if opts.Build && !opts.Quiet {
		opts.Stdout = typesetOut
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render definition files to TikZ and LaTeX",
		Long: `Render XDSM definition files (TOML, YAML, JSON or HCL).

For every file, <prefix>.tikz and <prefix>.tex are written next to the input
(or under --output), together with the diagram_styles.tikz file the document
inputs. Several files are rendered concurrently.

With no file argument, an interactive picker lists the definition files in the
current directory.

Examples:
  xdsm render kitchen_sink.toml
  xdsm render kitchen_sink.toml --build
  xdsm render kitchen_sink.toml --build --cleanup=false
  xdsm render a.toml b.yaml -f tikz,tex,svg
  xdsm render mdf.hcl -o out/mdf --summary`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config.Render)
			if err != nil {
				return err
			}
			files := args
			if len(files) == 0 {
				file, err := pickDefinitionFile(".")
				if err != nil {
					return err
				}
				if file == "" {
					return nil
				}
				files = []string{file}
			}
			if len(files) > 1 && opts.Output != "" {
				return errors.New(errors.ErrCodeInvalidInput, "--output applies to a single file; got %d files", len(files))
			}
			return c.runRender(cmd.Context(), files, opts, flags)
		},
	}

	addRenderFlags(cmd, &flags)
	return cmd
}

// runRender renders files concurrently and prints a report per file.
func (c *CLI) runRender(ctx context.Context, files []string, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", describeFiles(files)))
	if opts.Stdout == nil {
		spinner.Start()
	}

	results, err := renderFiles(ctx, runner, files, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	for i, res := range results {
		if i > 0 {
			printNewline()
		}
		printResult(files[i], res, flags.summary)
	}
	if len(files) > 1 {
		prog.done(fmt.Sprintf("Rendered %d files", len(files)))
	}
	return nil
}

// renderFiles runs the pipeline on every file, at most GOMAXPROCS at a time,
// or one at a time when the typesetter writes to the console. Results are
// returned in input order. The first failure cancels the rest.
func renderFiles(ctx context.Context, runner *pipeline.Runner, files []string, opts pipeline.Options) ([]*pipeline.Result, error) {
	results := make([]*pipeline.Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Stdout != nil {
		g.SetLimit(1)
	} else {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i, file := range files {
		g.Go(func() error {
			res, err := runner.ExecuteFile(gctx, file, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// printResult reports a rendered file: statistics, collisions, written files
// and the typesetting outcome.
func printResult(file string, res *pipeline.Result, summary bool) {
	printSuccess("Rendered %s", StyleHighlight.Render(file))
	printStats(res.Stats.Systems, res.Stats.Connections, res.Stats.GridSize, res.CacheInfo.RenderHit)
	printCollisions(res.Collisions)
	for _, f := range res.Files {
		printFile(f)
	}
	if ts := res.Typeset; ts != nil {
		if ts.OK() {
			printFile(ts.PDFPath)
			if len(ts.Removed) > 0 {
				printDetail("removed %s", strings.Join(ts.Removed, ", "))
			}
		} else {
			printWarning("Typesetting failed: %v", ts.ExitErr)
			for _, line := range tail(ts.Output, typesetLogLines) {
				printDetail("%s", line)
			}
		}
	}
	if summary && res.Diagram != nil {
		if grid, err := res.Diagram.Layout(); err == nil {
			printGrid(grid)
		}
	}
}

// describeFiles names a file list for progress messages.
func describeFiles(files []string) string {
	if len(files) == 1 {
		return files[0]
	}
	return plural(len(files), "file")
}

// tail returns the last n non-empty lines of output.
func tail(output []byte, n int) []string {
	var lines []string
	for _, line := range bytes.Split(output, []byte("\n")) {
		if s := strings.TrimSpace(string(line)); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
