package driving

import (
	"context"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// IngestResult reports the outcome of ingesting a single source.
type IngestResult struct {
	// Document is the stored document. Nil when Skipped.
	Document *domain.Document

	// Chunks is the number of chunks stored.
	Chunks int

	// Embedded is the number of chunks stored with an embedding.
	Embedded int

	// Skipped is true when the source path was already present and the
	// ingestion was a no-op.
	Skipped bool
}

// IngestService turns raw sources into indexed documents.
type IngestService interface {
	// Ingest extracts, chunks, embeds and stores one source.
	// Embedding failures degrade to chunks without embeddings.
	Ingest(ctx context.Context, source string, tags string) (*IngestResult, error)

	// IngestText stores already-extracted text under a source
	// identifier, bypassing extraction. Used for generated content.
	IngestText(ctx context.Context, sourcePath, filename string, kind domain.DocumentKind, text, tags string) (*IngestResult, error)
}
