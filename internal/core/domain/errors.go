package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// empty question or a missing file path. Surfaced directly to the
	// caller; never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngestInProgress indicates an ingestion run is already active
	// for the user. The delete-then-insert sequence is not atomic, so
	// same-user runs must not overlap.
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrNoRelevantDocuments indicates retrieval found no stored chunks
	// for the user. This is a "no document uploaded" condition, not a
	// retrieval failure.
	ErrNoRelevantDocuments = errors.New("no relevant documents found")

	// ErrModelNotConfigured indicates the embedding or chat model name
	// is unset.
	ErrModelNotConfigured = errors.New("model not configured")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Ingestion and retrieval both require it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat model service is not
	// configured. Answer generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// Similarity precondition violations. These indicate corrupt or mixed
// data reaching the scorer and abort the current query; they are never
// coerced to 0 or NaN.
var (
	// ErrDimensionMismatch indicates two vectors of unequal length were
	// compared.
	ErrDimensionMismatch = errors.New("vectors must have equal length")

	// ErrEmptyVector indicates a zero-length vector.
	ErrEmptyVector = errors.New("vectors must not be empty")

	// ErrZeroMagnitude indicates a vector whose magnitude is exactly
	// zero, which cannot be normalised.
	ErrZeroMagnitude = errors.New("vector magnitude must not be zero")
)
