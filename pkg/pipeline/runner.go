package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xdsm/pkg/cache"
	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
	"github.com/matzehuels/xdsm/pkg/observability"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the watcher and the API server use it to share caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ExecuteFile loads a definition file and runs the pipeline on it. An empty
// opts.Output defaults to the file path without its extension.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	loadStart := time.Now()
	def, err := io.ImportFile(path)
	if err != nil {
		return nil, err
	}
	d, err := io.ToDiagram(def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	loadTime := time.Since(loadStart)

	if opts.Output == "" {
		opts.Output = strings.TrimSuffix(path, filepath.Ext(path))
	}
	result, err := r.run(ctx, d, def, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.Stats.LoadTime = loadTime
	return result, nil
}

// Execute builds the diagram of a definition and runs the render → write →
// build stages.
func (r *Runner) Execute(ctx context.Context, def *io.Definition, opts Options) (*Result, error) {
	d, err := io.ToDiagram(def)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, d, def, opts)
}

// ExecuteDiagram runs the render → write → build stages on a diagram built
// with the Go API.
func (r *Runner) ExecuteDiagram(ctx context.Context, d *xdsm.Diagram, opts Options) (*Result, error) {
	return r.run(ctx, d, io.FromDiagram(d), opts)
}

func (r *Runner) run(ctx context.Context, d *xdsm.Diagram, def *io.Definition, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	grid, err := d.Layout()
	if err != nil {
		return nil, err
	}

	hash, err := DiagramHash(def)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Diagram:     d,
		DiagramHash: hash,
		Collisions:  grid.Collisions,
		Stats: Stats{
			Systems:     len(d.Systems()),
			Connections: len(d.Connections()),
			GridSize:    grid.Size(),
		},
	}
	for _, c := range grid.Collisions {
		r.Logger.Warn("connection overwritten", "row", c.Row, "col", c.Col, "replaced", c.Replaced, "by", c.By)
	}

	// Stage 1: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, hash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered diagram",
		"systems", result.Stats.Systems,
		"grid", result.Stats.GridSize,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	if opts.Output == "" {
		return result, nil
	}

	// Stage 2: Write
	files, err := Write(artifacts, opts)
	result.Files = files
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	r.Logger.Debug("wrote artifacts", "files", files)

	// Stage 3: Build
	if opts.Build {
		res, err := Build(ctx, opts)
		if res != nil {
			observability.Pipeline().OnBuildComplete(ctx, opts.OutputPath(FormatTeX), res.OK(), res.Duration, err)
		} else {
			observability.Pipeline().OnBuildComplete(ctx, opts.OutputPath(FormatTeX), false, 0, err)
		}
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		result.Typeset = res
		result.Stats.BuildTime = res.Duration
		if !res.OK() {
			r.Logger.Warn("typesetting failed", "tex", opts.OutputPath(FormatTeX), "err", res.ExitErr)
		} else {
			r.Logger.Info("typeset document", "pdf", res.PDFPath, "duration", res.Duration)
		}
	}

	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *xdsm.Diagram, hash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, format)
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, format)
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(ctx, d, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	return rendered, false, nil // Cache miss
}

// DiagramHash returns the content hash of a definition: the SHA-256 of its
// JSON encoding.
func DiagramHash(def *io.Definition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize definition for cache key")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
