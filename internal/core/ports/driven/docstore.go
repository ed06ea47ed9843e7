package driven

import (
	"context"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks for one bucket.
// Backed by SQLite with FTS5 for keyword search.
type DocumentStore interface {
	// InsertDocument stores a new document. Returns
	// domain.ErrAlreadyExists when a document with the same source path
	// is present; callers treat that as a no-op.
	InsertDocument(ctx context.Context, doc *domain.Document) error

	// InsertChunks stores the chunks of a document in one batch.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ChunksWithEmbeddings returns every chunk that carries an
	// embedding, across all documents in the bucket.
	ChunksWithEmbeddings(ctx context.Context) ([]domain.Chunk, error)

	// UpdateChunkEmbedding attaches an embedding to a chunk that was
	// stored without one.
	UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error

	// SearchChunks runs ranked full-text search over chunk content.
	SearchChunks(ctx context.Context, query string, limit int) ([]domain.Chunk, error)

	// SearchDocuments runs ranked full-text search over whole documents.
	SearchDocuments(ctx context.Context, query string, limit int) ([]domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ExistsBySourcePath reports whether a document with the given
	// source path is already stored.
	ExistsBySourcePath(ctx context.Context, sourcePath string) (bool, error)

	// DeleteDocument removes a document; its chunks cascade.
	DeleteDocument(ctx context.Context, id string) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
