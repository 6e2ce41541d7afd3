package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xdsm/internal/watch"
	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/pipeline"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    renderFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch file...",
		Short: "Re-render definition files whenever they change",
		Long: `Render definition files once, then again every time one of them is saved.

Errors in a definition are reported without stopping the watch, so a broken
intermediate save does not end the session. Press Ctrl+C to stop.

Examples:
  xdsm watch kitchen_sink.toml --build
  xdsm watch a.toml b.toml -f tikz,tex,svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config.Render)
			if err != nil {
				return err
			}
			if len(args) > 1 && opts.Output != "" {
				return errors.New(errors.ErrCodeInvalidInput, "--output applies to a single file; got %d files", len(args))
			}
			return c.runWatch(cmd.Context(), args, opts, flags, debounce)
		},
	}

	addRenderFlags(cmd, &flags)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-rendering")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, files []string, opts pipeline.Options, flags renderFlags, debounce time.Duration) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// The watcher reports absolute paths; report them as the user typed them.
	names := make(map[string]string, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", f)
		}
		names[abs] = f
	}

	render := func(ctx context.Context, path string) {
		file := names[path]
		if file == "" {
			file = path
		}
		res, err := runner.ExecuteFile(ctx, file, opts)
		if err != nil {
			if ctx.Err() == nil {
				printError("%v", err)
			}
			return
		}
		printResult(file, res, flags.summary)
	}

	w, err := watch.New(files, render, watch.Options{Debounce: debounce, Logger: c.Logger})
	if err != nil {
		return err
	}

	for _, f := range files {
		render(ctx, f)
	}
	printInfo("Watching %s for changes (Ctrl+C to stop)", describeFiles(files))
	return w.Run(ctx)
}
