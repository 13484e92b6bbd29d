package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/core/ports/driving"
	"github.com/olivestory-corp/docchat/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// DefaultTopK is the number of chunks returned when the caller does
// not specify a limit.
const DefaultTopK = 3

// RetrieverService ranks a user's stored chunks against a query by
// cosine similarity of their embeddings.
type RetrieverService struct {
	store    driven.ChunkStore
	embedder driven.EmbeddingService
}

// NewRetrieverService creates a new retrieval service.
func NewRetrieverService(store driven.ChunkStore, embedder driven.EmbeddingService) *RetrieverService {
	return &RetrieverService{store: store, embedder: embedder}
}

// Retrieve embeds the query, scores every chunk stored for the user,
// and returns the k best matches in descending similarity order.
// Chunks with equal similarity keep their insertion order. A scoring
// error on any chunk aborts the whole retrieval: a chunk that cannot
// be compared means the store and the embedder disagree, and a partial
// ranking would silently hide it.
func (s *RetrieverService) Retrieve(ctx context.Context, userID, query string, k int) ([]domain.ScoredChunk, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Retrieval")
	logger.Debug("User: %s, top-k: %d", userID, k)

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.store.ScanAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks stored for user %s", userID)
		return []domain.ScoredChunk{}, nil
	}

	scored := make([]domain.ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		similarity, err := domain.CosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score chunk %d: %w", chunk.ID, err)
		}
		scored[i] = domain.ScoredChunk{StoredChunk: chunk, Similarity: similarity}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Similarity > scored[b].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	for i := 0; i < k; i++ {
		logger.Debug("Match %d: chunk %d (page %d), similarity %.4f",
			i+1, scored[i].ID, scored[i].Metadata.Page, scored[i].Similarity)
	}

	return scored[:k], nil
}
