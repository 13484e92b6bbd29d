package driving

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// Answerer answers questions over a user's ingested document.
type Answerer interface {
	// Ask retrieves the chunks most relevant to the question and
	// streams a generated answer conditioned on them.
	//
	// It returns the provenance of the retrieved chunks (rank 1..k)
	// together with the token stream; tokens must be rendered as they
	// arrive. The errs channel carries at most one terminal error.
	//
	// An empty question fails with domain.ErrInvalidInput; a user with
	// no stored chunks fails with domain.ErrNoRelevantDocuments. Both
	// are returned synchronously before any stream is opened.
	Ask(ctx context.Context, userID, question string) ([]domain.SourceDocumentRef, <-chan string, <-chan error, error)
}
