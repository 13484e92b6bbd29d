// Package memory provides in-memory storage implementations, used in
// tests and for ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	nextID int64
	chunks map[string][]domain.StoredChunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		nextID: 1,
		chunks: make(map[string][]domain.StoredChunk),
	}
}

// Insert persists a single chunk and assigns its ID.
func (s *ChunkStore) Insert(_ context.Context, chunk *domain.StoredChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk.ID = s.nextID
	s.nextID++
	s.chunks[chunk.UserID] = append(s.chunks[chunk.UserID], *chunk)
	return nil
}

// DeleteAll removes every chunk owned by the user.
func (s *ChunkStore) DeleteAll(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, userID)
	return nil
}

// ScanAll returns every chunk owned by the user in insertion order.
func (s *ChunkStore) ScanAll(_ context.Context, userID string) ([]domain.StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.chunks[userID]
	out := make([]domain.StoredChunk, len(stored))
	copy(out, stored)
	return out, nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}
