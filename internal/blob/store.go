package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no object exists under the requested key.
var ErrNotFound = errors.New("blob not found")

// Store is a content-addressed byte sink. Keys are content hashes, so a
// Put of identical bytes lands on the same object and acts as a no-op
// overwrite. The database row referencing a key is the source of truth
// for existence; orphaned objects are tolerated and collected externally.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ObjectKey builds the canonical object path for a content hash.
func ObjectKey(contentHash string) string {
	return "documents/" + contentHash
}
