package driving

import (
	"context"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// RetrievalService answers queries with ranked, deduplicated chunks and
// assembles them into a bounded context string.
type RetrievalService interface {
	// Retrieve returns the ranked, deduplicated chunks for a query.
	// Returns domain.ErrEmptyQuery when the query trims to nothing.
	Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error)

	// BuildContext retrieves and packs results into labeled context
	// blocks within maxContextChars. Embedding failure silently
	// degrades to keyword-only retrieval.
	BuildContext(ctx context.Context, query string, maxContextChars int) ([]domain.ContextBlock, error)
}
