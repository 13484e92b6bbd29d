package driven

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// PostProcessor processes a loaded document to produce chunks.
// PostProcessors are chained in a pipeline (chunking, deduplication).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and the chunks produced so far.
	// A creating processor (the chunker) receives nil chunks and
	// returns new ones; a filtering processor (dedupe) transforms the
	// chunks it receives.
	Process(ctx context.Context, doc *domain.SourceDocument, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order and
	// returns the final chunks.
	Process(ctx context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error)
}
