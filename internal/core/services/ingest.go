package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/olivestory-corp/docchat/internal/core/domain"
	"github.com/olivestory-corp/docchat/internal/core/ports/driven"
	"github.com/olivestory-corp/docchat/internal/core/ports/driving"
	"github.com/olivestory-corp/docchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// User-facing status strings.
const (
	statusProcessing = "페이지 처리 중: %d/%d"
	statusCompleted  = "문서 처리가 완료되었습니다."
	statusFailed     = "문서 처리 중 오류가 발생했습니다."
)

// minPersistLength mirrors the dedupe filter's floor. The pipeline
// already drops short chunks; this re-check keeps the persist loop
// safe if the pipeline is reconfigured without the filter.
const minPersistLength = 10

// IngestService replaces a user's stored chunks with freshly loaded,
// chunked, deduplicated, and embedded content.
//
// Ingestion is not transactional: a failure mid-run leaves the chunks
// persisted so far in place. Runs for the same user are serialised;
// an overlapping call fails fast with domain.ErrIngestInProgress
// because the delete-then-insert sequence must not interleave.
type IngestService struct {
	store    driven.ChunkStore
	embedder driven.EmbeddingService
	pipeline driven.PostProcessorPipeline
	loaders  driven.LoaderRegistry

	mu     sync.Mutex
	active map[string]struct{}
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	store driven.ChunkStore,
	embedder driven.EmbeddingService,
	pipeline driven.PostProcessorPipeline,
	loaders driven.LoaderRegistry,
) *IngestService {
	return &IngestService{
		store:    store,
		embedder: embedder,
		pipeline: pipeline,
		loaders:  loaders,
		active:   make(map[string]struct{}),
	}
}

// Ingest runs the pipeline for one document and streams progress.
// The returned channel is unbuffered: each event is handed to the
// consumer as soon as it is produced, and the producer stops promptly
// when ctx is cancelled.
func (s *IngestService) Ingest(ctx context.Context, userID, path string) <-chan domain.IngestEvent {
	events := make(chan domain.IngestEvent)

	go func() {
		defer close(events)

		if userID == "" || path == "" {
			s.fail(ctx, events, fmt.Errorf("%w: user id and file path are required", domain.ErrInvalidInput))
			return
		}

		if !s.acquire(userID) {
			s.fail(ctx, events, fmt.Errorf("user %s: %w", userID, domain.ErrIngestInProgress))
			return
		}
		defer s.release(userID)

		s.run(ctx, events, userID, path)
	}()

	return events
}

// run executes one ingestion: purge, load, chunk, dedupe, embed,
// persist, reporting after every persisted chunk.
func (s *IngestService) run(ctx context.Context, events chan<- domain.IngestEvent, userID, path string) {
	logger.Section("Ingestion")
	logger.Debug("User: %s, file: %s", userID, path)

	// A new upload supersedes the user's previous document entirely.
	if err := s.store.DeleteAll(ctx, userID); err != nil {
		s.fail(ctx, events, fmt.Errorf("delete existing chunks: %w", err))
		return
	}
	logger.Debug("Existing chunks deleted")

	loader, err := s.loaders.LoaderFor(path)
	if err != nil {
		s.fail(ctx, events, err)
		return
	}

	pages, err := loader.Load(ctx, path)
	if err != nil {
		s.fail(ctx, events, fmt.Errorf("load document: %w", err))
		return
	}
	logger.Debug("Loaded %d pages", len(pages))

	doc := &domain.SourceDocument{Source: path, Pages: pages}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		s.fail(ctx, events, fmt.Errorf("chunk document: %w", err))
		return
	}

	total := len(chunks)
	logger.Debug("Pipeline produced %d chunks", total)

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			return
		}

		if utf8.RuneCountInString(strings.TrimSpace(chunk.Content)) < minPersistLength {
			logger.Debug("Skipping very short chunk %s", chunk.ID)
			continue
		}

		embedding, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			s.fail(ctx, events, fmt.Errorf("embed chunk %d: %w", i+1, err))
			return
		}

		stored := domain.StoredChunk{
			UserID:    userID,
			Content:   chunk.Content,
			Metadata:  chunk.Metadata,
			Embedding: embedding,
		}
		if err := s.store.Insert(ctx, &stored); err != nil {
			s.fail(ctx, events, fmt.Errorf("persist chunk %d: %w", i+1, err))
			return
		}

		current := i + 1
		if !s.emit(ctx, events, domain.IngestEvent{
			Progress:    percent(current, total),
			CurrentPage: current,
			TotalPages:  total,
			Status:      fmt.Sprintf(statusProcessing, current, total),
		}) {
			return
		}
	}

	s.emit(ctx, events, domain.IngestEvent{
		Progress:    100,
		CurrentPage: total,
		TotalPages:  total,
		Success:     true,
		Message:     statusCompleted,
	})
}

// emit delivers an event unless the consumer has gone away.
// It reports false when the run should stop.
func (s *IngestService) emit(ctx context.Context, events chan<- domain.IngestEvent, ev domain.IngestEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// fail delivers the terminal failure event.
func (s *IngestService) fail(ctx context.Context, events chan<- domain.IngestEvent, err error) {
	logger.Warn("Ingestion failed: %v", err)
	s.emit(ctx, events, domain.IngestEvent{
		Status: statusFailed,
		Err:    err,
	})
}

// acquire marks the user's ingestion as active. It reports false when
// a run is already in flight for that user.
func (s *IngestService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[userID]; busy {
		return false
	}
	s.active[userID] = struct{}{}
	return true
}

// release clears the user's active marker.
func (s *IngestService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}

// percent converts a progress fraction to a rounded integer percentage.
func percent(current, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}
