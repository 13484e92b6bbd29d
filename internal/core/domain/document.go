package domain

import "time"

// Page is one page of extracted document text, as produced by a
// document loader. Numbering is 1-based.
type Page struct {
	// Text is the raw extracted text of the page.
	Text string

	// Number is the 1-based page number within the source document.
	Number int
}

// SourceDocument is a loaded document before chunking: the source
// identifier plus its per-page text in reading order.
type SourceDocument struct {
	// Source identifies the originating document (file path or document id).
	Source string

	// Pages holds the extracted text in page order.
	Pages []Page
}

// ChunkMetadata carries the provenance of a chunk. Page and Source are
// always present for any chunk returned to a caller; Extra holds
// open-ended keys for forward compatibility.
type ChunkMetadata struct {
	// Page is the 1-based page number the chunk was drawn from.
	Page int

	// Source identifies the originating document.
	Source string

	// Extra contains additional key-value pairs.
	Extra map[string]any
}

// Chunk is a contiguous span of document text selected for independent
// retrieval. Chunks are created during ingestion and immutable once
// created.
type Chunk struct {
	// ID identifies the chunk within a pipeline run. It is assigned
	// at creation and is distinct from the storage row identifier.
	ID string

	// Content is the chunk text, trimmed and non-empty.
	Content string

	// Metadata carries page and source provenance.
	Metadata ChunkMetadata
}

// StoredChunk is the persisted unit: a chunk plus its embedding, scoped
// to the owning user. One user's chunks are never visible to another
// user's queries.
type StoredChunk struct {
	// ID is the storage-assigned row identifier.
	ID int64

	// UserID is the isolation key. All reads and bulk deletes are
	// scoped by it.
	UserID string

	// Content is the chunk text.
	Content string

	// Metadata carries page and source provenance.
	Metadata ChunkMetadata

	// Embedding is the chunk's semantic vector. Its length equals the
	// embedding model's output dimensionality at write time.
	Embedding []float32

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// ScoredChunk is a query-scoped pairing of a stored chunk with its
// similarity to the query vector. Never persisted.
type ScoredChunk struct {
	StoredChunk

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64
}

// SourceDocumentRef is the provenance record surfaced alongside a
// generated answer. ID is the rank position (1..k).
type SourceDocumentRef struct {
	ID      int    `json:"id"`
	Page    int    `json:"page"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Ref converts a scored chunk into its provenance record at the given
// 1-based rank.
func (c ScoredChunk) Ref(rank int) SourceDocumentRef {
	return SourceDocumentRef{
		ID:      rank,
		Page:    c.Metadata.Page,
		Source:  c.Metadata.Source,
		Content: c.Content,
	}
}
