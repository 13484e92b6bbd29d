package driving

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// Ingestor turns a raw document file into stored, embedded chunks.
type Ingestor interface {
	// Ingest replaces the user's stored chunks with chunks built from
	// the file at path, reporting progress on the returned channel.
	//
	// The channel is unbuffered and closed after exactly one terminal
	// event. Chunks persisted before a failure remain persisted; the
	// run is not transactional. At most one run per user may be active
	// at a time; an overlapping call fails with a terminal event
	// wrapping domain.ErrIngestInProgress.
	//
	// Cancelling ctx stops the run before its next embedding or
	// storage call.
	Ingest(ctx context.Context, userID, path string) <-chan domain.IngestEvent
}
