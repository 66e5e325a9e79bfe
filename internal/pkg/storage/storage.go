package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get when nothing is stored under the requested path.
var ErrNotExist = errors.New("storage: object does not exist")

// Storage abstracts where boat media bytes live.
// Paths are slash separated and relative to the storage root.
type Storage interface {
	// Save writes content under path, replacing anything already there.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object stored under path. The caller closes the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object under path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
