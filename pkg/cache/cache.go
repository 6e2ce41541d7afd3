// Package cache provides pluggable byte caches for rendered artifacts.
//
// # Overview
//
// Rendering a diagram is cheap, but typesetting it and drawing previews is
// not, and the HTTP API renders the same stored diagrams over and over. The
// pipeline therefore caches every artifact under a key derived from the
// content hash of the definition and the render options.
//
// # Backends
//
//   - [NullCache]: never stores anything; the default for one-off renders
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the API server
//
// # Keys
//
// A [Keyer] turns a content hash and options into a cache key. The
// [ScopedKeyer] prefixes every key, so that several deployments can share one
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. A zero TTL in Set
// means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered artifact of a diagram.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	StylesPath string  `json:"styles_path,omitempty"`
	TikZPath   string  `json:"tikz_path,omitempty"`
	Version    string  `json:"version,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	Processes  bool    `json:"processes,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256 of hash and options>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}
