// Package chunker provides a recursive separator-based text chunking
// processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 200

// DefaultSeparators is the ordered separator list, coarsest to finest:
// paragraph break, line break, sentence-ending punctuation (ASCII and
// full-width), space, then a character-level cut that always succeeds.
var DefaultSeparators = []string{"\n\n", "\n", "。", ".", "!", "?", "！", "？", " ", ""}

// Processor splits document pages into bounded, overlapping chunks.
// It implements the PostProcessor interface.
//
// Splitting tries each separator in order and recurses into oversized
// pieces with the remaining separators; the empty-string separator cuts
// at the character level, so the recursion always terminates. Output is
// fully deterministic for a given input and configuration.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators sets the ordered separator list. The list should end
// with "" so a character-level cut is always available.
func WithSeparators(separators []string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits each page of the document into chunks. Pages are
// split independently so a chunk never spans a page boundary, and each
// chunk inherits its page number and the document source.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, doc *domain.SourceDocument, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	var chunks []domain.Chunk
	for _, page := range doc.Pages {
		for _, piece := range p.splitText(page.Text, p.separators) {
			chunks = append(chunks, domain.Chunk{
				ID:      uuid.New().String(),
				Content: piece,
				Metadata: domain.ChunkMetadata{
					Page:   page.Number,
					Source: doc.Source,
				},
			})
		}
	}
	return chunks, nil
}

// splitText recursively splits text with the first separator that
// occurs in it, merging small pieces back into bounded windows and
// descending into oversized pieces with the remaining separators.
func (p *Processor) splitText(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Pick the first separator present in the text. The final ""
	// entry matches unconditionally.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			separator = s
			remaining = separators[i+1:]
			break
		}
	}

	var final []string
	var small []string

	flush := func() {
		if len(small) > 0 {
			final = append(final, p.mergeSplits(small, separator)...)
			small = nil
		}
	}

	for _, piece := range splitOn(text, separator) {
		if utf8.RuneCountInString(piece) <= p.chunkSize {
			small = append(small, piece)
			continue
		}
		flush()
		if len(remaining) == 0 {
			// No finer separator left; keep the oversized atom.
			final = append(final, piece)
		} else {
			final = append(final, p.splitText(piece, remaining)...)
		}
	}
	flush()

	return final
}

// mergeSplits greedily packs consecutive pieces into windows of at most
// chunkSize characters, carrying roughly overlap characters of trailing
// context into the next window.
func (p *Processor) mergeSplits(splits []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)

	var docs []string
	var window []string
	total := 0

	joinLen := func(extra int) int {
		if len(window) > 0 {
			return total + extra + sepLen
		}
		return total + extra
	}

	for _, piece := range splits {
		l := utf8.RuneCountInString(piece)

		if joinLen(l) > p.chunkSize && len(window) > 0 {
			if doc := joinPieces(window, separator); doc != "" {
				docs = append(docs, doc)
			}
			// Drop from the front until the carry-over fits the
			// overlap budget and leaves room for the next piece.
			for total > p.overlap || (joinLen(l) > p.chunkSize && total > 0) {
				dropped := utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					dropped += sepLen
				}
				total -= dropped
				window = window[1:]
			}
		}

		if len(window) > 0 {
			total += sepLen
		}
		total += l
		window = append(window, piece)
	}

	if doc := joinPieces(window, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitOn splits text by the separator, dropping empty pieces.
// The empty separator splits into individual characters.
func splitOn(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	raw := strings.Split(text, separator)
	pieces := raw[:0]
	for _, s := range raw {
		if s != "" {
			pieces = append(pieces, s)
		}
	}
	return pieces
}

// joinPieces joins a window back together and trims surrounding
// whitespace; chunk text is always stored trimmed.
func joinPieces(window []string, separator string) string {
	return strings.TrimSpace(strings.Join(window, separator))
}
