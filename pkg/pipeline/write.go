package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/typeset"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// =============================================================================
// Write
// =============================================================================

// Write stores artifacts under opts.Output, one <prefix>.<format> file per
// artifact in write order. When the document uses the default styles path,
// the embedded styles file is written into the same directory so the tex
// file compiles on its own. It returns the paths written.
func Write(artifacts map[string][]byte, opts Options) ([]string, error) {
	if err := errors.ValidatePrefix(opts.Output); err != nil {
		return nil, err
	}

	dir := filepath.Dir(filepath.FromSlash(opts.Output))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}

	var files []string
	for _, format := range opts.Formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := opts.OutputPath(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return files, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		files = append(files, path)
	}

	if opts.WritesStyles() {
		path := filepath.Join(dir, xdsm.StylesFileName)
		if err := os.WriteFile(path, xdsm.StylesFile, 0o644); err != nil {
			return files, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		files = append(files, path)
	}

	return files, nil
}

// =============================================================================
// Build
// =============================================================================

// Build typesets <prefix>.tex. A failed engine run is reported in the
// result, not as an error.
func Build(ctx context.Context, opts Options) (*typeset.Result, error) {
	res, err := typeset.Build(ctx, opts.OutputPath(FormatTeX), typeset.Options{
		Command: opts.TeXCommand,
		Quiet:   opts.Quiet,
		Cleanup: opts.Cleanup,
		Stdout:  opts.Stdout,
	})
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("typeset finished", "command", opts.TeXCommand, "ok", res.OK(), "duration", res.Duration)
	return res, nil
}
