package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// This is an optional dependency: when nil, semantic search is disabled
// and retrieval degrades to keyword-only. Implementations are expected
// to be safe for reuse across calls and constructed once per process.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Failures wrap domain.ErrEmbeddingUnavailable; callers treat them
	// as "index without embedding", never as fatal.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
