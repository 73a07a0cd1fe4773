// Package store defines the storage backend interface used to read encoder
// input and write encoder output by name.
package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object does not exist in the store.
var ErrNotFound = errors.New("store: object not found")

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// Open returns a reader for the named object.
	// Returns ErrNotFound if it does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create returns a writer that replaces the named object. The object
	// is only guaranteed to be complete once Close returns nil.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// Remove deletes the named object. Removing a missing object returns
	// ErrNotFound.
	Remove(ctx context.Context, name string) error

	// Close releases any resources held by the store.
	Close() error
}
