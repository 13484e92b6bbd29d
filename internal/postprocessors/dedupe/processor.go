// Package dedupe provides a chunk deduplication processor.
package dedupe

import (
	"context"
	"strings"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// MinChunkLength is the minimum trimmed chunk length, in characters.
// Shorter chunks carry too little signal to be worth retrieving.
const MinChunkLength = 10

// Processor drops chunks that are too short or textually identical to
// an earlier chunk in the same sequence. It implements the
// PostProcessor interface.
//
// Matching is exact trimmed-string equality, not fuzzy: chunks that
// differ by a trailing space or punctuation variant pass through as
// distinct. Order is preserved and the first occurrence wins, so the
// filter is idempotent over its own output.
type Processor struct {
	minLength int
}

// Option configures the dedupe processor.
type Option func(*Processor)

// WithMinLength sets the minimum trimmed chunk length.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// New creates a new dedupe processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{minLength: MinChunkLength}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "dedupe"
}

// Process filters the chunks it receives; the document is not consulted.
func (p *Processor) Process(_ context.Context, _ *domain.SourceDocument, chunks []domain.Chunk) ([]domain.Chunk, error) {
	seen := make(map[string]struct{}, len(chunks))
	kept := make([]domain.Chunk, 0, len(chunks))

	for _, chunk := range chunks {
		content := strings.TrimSpace(chunk.Content)
		if len([]rune(content)) < p.minLength {
			continue
		}
		if _, dup := seen[content]; dup {
			continue
		}
		seen[content] = struct{}{}
		kept = append(kept, chunk)
	}

	return kept, nil
}
