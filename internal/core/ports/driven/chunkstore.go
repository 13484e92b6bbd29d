package driven

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// ChunkStore persists embedded chunks, scoped by user identity.
// Backed by SQLite for durable storage.
//
// The store is the sole shared mutable resource in the system; every
// write and read is keyed by user id, and one user's chunks are never
// visible to another user's queries.
type ChunkStore interface {
	// Insert persists a single chunk. The ID field is assigned by the
	// store.
	Insert(ctx context.Context, chunk *domain.StoredChunk) error

	// DeleteAll removes every chunk owned by the user. Deleting for a
	// user with no chunks is not an error.
	DeleteAll(ctx context.Context, userID string) error

	// ScanAll returns every chunk owned by the user in storage order.
	// A user with no chunks yields an empty slice, not an error.
	ScanAll(ctx context.Context, userID string) ([]domain.StoredChunk, error)

	// Close releases resources.
	Close() error
}
