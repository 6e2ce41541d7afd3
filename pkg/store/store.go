// Package store persists diagram definitions for the HTTP API.
//
// Implementations:
//   - [MemoryStore]: in-process map for development and tests
//   - [FileStore]: one JSON file per diagram, for single-host deployments
//   - [MongoStore]: a MongoDB collection, for multi-instance deployments
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, store.MongoOptions{URI: uri})
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	rec := store.New("sellar", def)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err = st.Get(ctx, rec.ID)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no such diagram
//	}
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
)

// Diagram is a stored definition.
type Diagram struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Definition *io.Definition `json:"definition"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Put creates or replaces the diagram with rec.ID.
	Put(ctx context.Context, rec *Diagram) error

	// Get returns the diagram with the given ID, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns all diagrams, most recently updated first.
	List(ctx context.Context) ([]*Diagram, error)

	// Delete removes a diagram, or returns an ErrCodeNotFound error.
	Delete(ctx context.Context, id string) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// New creates a record with a fresh ID.
func New(name string, def *io.Definition) *Diagram {
	// MongoDB keeps millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Diagram{
		ID:         uuid.NewString(),
		Name:       name,
		Definition: def,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ValidateID checks that id is a UUID as produced by New.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid diagram id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "diagram %s not found", id)
}

func validateRecord(rec *Diagram) error {
	if rec == nil || rec.Definition == nil {
		return errors.New(errors.ErrCodeInvalidInput, "diagram has no definition")
	}
	return ValidateID(rec.ID)
}

func sortByUpdated(recs []*Diagram) {
	slices.SortStableFunc(recs, func(a, b *Diagram) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
