package typeset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	xerrors "github.com/matzehuels/xdsm/pkg/errors"
)

// DefaultCommand is the LaTeX engine used when Options.Command is empty.
const DefaultCommand = "pdflatex"

// CleanupExtensions lists the byproducts removed by Cleanup.
var CleanupExtensions = []string{".aux", ".fdb_latexmk", ".fls", ".log"}

// Options configures a typeset run.
type Options struct {
	// Command is the engine executable. Defaults to DefaultCommand.
	Command string

	// Quiet runs the engine with -interaction=batchmode -halt-on-error.
	Quiet bool

	// Cleanup removes build byproducts after the run.
	Cleanup bool

	// Stdout receives the engine's combined output. When nil the output is
	// captured in Result.Output instead.
	Stdout io.Writer
}

// Result describes a finished typeset run.
type Result struct {
	// PDFPath is where the engine writes the document.
	PDFPath string

	// ExitErr is the engine's exit error, nil on success.
	ExitErr error

	// Output holds the engine's output when Options.Stdout was nil.
	Output []byte

	// Removed lists the byproducts deleted by cleanup.
	Removed []string

	// Duration is the wall time of the engine run.
	Duration time.Duration
}

// OK reports whether the engine exited successfully.
func (r *Result) OK() bool { return r.ExitErr == nil }

// Available checks that command can be found on PATH.
func Available(command string) error {
	if command == "" {
		command = DefaultCommand
	}
	if _, err := exec.LookPath(command); err != nil {
		return xerrors.Wrap(xerrors.ErrCodeTypesetUnavailable, err,
			"%s not found; install a TeX distribution (TeX Live, MiKTeX or MacTeX) or skip the build step", command)
	}
	return nil
}

// Build typesets texPath and returns the outcome.
func Build(ctx context.Context, texPath string, opts Options) (*Result, error) {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}
	if err := Available(command); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(texPath), ".tex") {
		return nil, xerrors.New(xerrors.ErrCodeInvalidPath, "%s is not a .tex file", texPath)
	}
	if _, err := os.Stat(texPath); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCodeFileNotFound, err, "stat %s", texPath)
	}

	dir, file := filepath.Split(texPath)
	if dir == "" {
		dir = "."
	}

	var args []string
	if opts.Quiet {
		args = append(args, "-interaction=batchmode", "-halt-on-error")
	}
	args = append(args, file)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stdout
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	res := &Result{PDFPath: strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"}

	start := time.Now()
	runErr := cmd.Run()
	res.Duration = time.Since(start)
	res.Output = out.Bytes()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		res.ExitErr = exitErr
	default:
		return nil, xerrors.Wrap(xerrors.ErrCodeTypesetUnavailable, runErr, "run %s", command)
	}

	if opts.Cleanup {
		removed, err := Cleanup(texPath)
		res.Removed = removed
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// Cleanup removes the build byproducts of texPath that exist and returns the
// removed paths.
func Cleanup(texPath string) ([]string, error) {
	base := strings.TrimSuffix(texPath, filepath.Ext(texPath))
	var removed []string
	for _, ext := range CleanupExtensions {
		p := base + ext
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, xerrors.Wrap(xerrors.ErrCodeInternal, err, "remove %s", p)
		}
	}
	return removed, nil
}
