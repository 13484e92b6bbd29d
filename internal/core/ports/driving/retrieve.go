package driving

import (
	"context"

	"github.com/olivestory-corp/docchat/internal/core/domain"
)

// Retriever finds the stored chunks most similar to a query.
type Retriever interface {
	// Retrieve embeds the query and returns up to k of the user's
	// chunks ranked by descending cosine similarity, ties broken by
	// storage order. A user with no chunks yields an empty slice and
	// no error.
	//
	// A retrieval that runs concurrently with an in-flight ingestion
	// for the same user may observe a partially populated store.
	Retrieve(ctx context.Context, userID, query string, k int) ([]domain.ScoredChunk, error)
}
