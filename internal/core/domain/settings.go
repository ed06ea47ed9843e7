package domain

// Settings holds user configuration persisted in the config store.
type Settings struct {
	// CurrentBucket is the normalized name of the active bucket, or
	// empty when none is selected.
	CurrentBucket string

	// APIKey authenticates against the chat completion provider.
	APIKey string

	// Model is the chat model identifier.
	Model string

	// EmbeddingProvider selects the embedding backend ("ollama" or
	// "openai").
	EmbeddingProvider string

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// EmbeddingBaseURL overrides the embedding provider endpoint.
	EmbeddingBaseURL string

	// ChunkSize is the target chunk size in bytes. Zero means default.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent chunks in bytes.
	ChunkOverlap int
}

// DefaultModel is the default chat model.
const DefaultModel = "llama-3.3-70b-versatile"
