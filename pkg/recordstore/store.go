package recordstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the collection has never been saved.
	ErrNotFound = errors.New("record collection not found")
	// ErrPersistence wraps read, decode and write failures of a backend.
	ErrPersistence = errors.New("record persistence failed")
	// ErrCorrupt marks stored data that was read but could not be decoded.
	// It is always reported together with ErrPersistence.
	ErrCorrupt = errors.New("record data is corrupt")
)

// Store loads and saves a whole collection of records at once.
// Save replaces the previous collection; there is no partial update.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
}
