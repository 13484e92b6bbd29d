package postprocessors

import (
	"github.com/olivestory-corp/docchat/internal/postprocessors/chunker"
	"github.com/olivestory-corp/docchat/internal/postprocessors/dedupe"
)

// NewDefaultPipeline builds the standard ingestion pipeline: recursive
// chunking followed by length filtering and exact-match deduplication.
// Zero or negative values fall back to the processors' defaults.
func NewDefaultPipeline(chunkSize, overlap int) *Pipeline {
	var chunkerOpts []chunker.Option
	if chunkSize > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(chunkSize))
	}
	if overlap >= 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(overlap))
	}

	return NewPipeline(
		chunker.New(chunkerOpts...),
		dedupe.New(),
	)
}
