package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists. Ingestion
	// treats this as a detected no-op, not a failure.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a search query was empty after trimming.
	ErrEmptyQuery = errors.New("empty query")

	// ErrBucketNotFound indicates the named bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrNoBucket indicates no bucket is currently selected.
	ErrNoBucket = errors.New("no bucket selected")

	// ErrEmbeddingUnavailable indicates the embedding provider could not
	// produce a vector. Callers must degrade to keyword-only retrieval
	// or index without an embedding; this is never fatal.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCorruptEmbedding indicates a stored embedding blob whose length
	// is not a multiple of the element size.
	ErrCorruptEmbedding = errors.New("corrupt embedding data")

	// ErrCorruptTimestamp indicates a stored timestamp that failed to parse.
	ErrCorruptTimestamp = errors.New("corrupt timestamp")

	// ErrUnsupportedSource indicates no extractor can handle a source.
	ErrUnsupportedSource = errors.New("unsupported source type")
)
