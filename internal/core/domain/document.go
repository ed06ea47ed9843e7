package domain

import "time"

// Document represents an ingested unit of content within a bucket.
// The extracted text is stored in full; search operates on chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourcePath is the canonical source identifier (absolute file path
	// or URL). It is unique within a bucket and acts as the dedup key:
	// re-adding the same source is a detected no-op.
	SourcePath string

	// Filename is the human-readable display name.
	Filename string

	// Kind identifies how the content was produced.
	Kind DocumentKind

	// Content is the full extracted text.
	Content string

	// Tags is optional free-text metadata supplied by the user.
	Tags string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk is a contiguous slice of a document's text produced by the
// chunker. Chunks are the unit of retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Position is the 0-based ordinal within the document. Positions
	// are dense: 0..n-1 with no gaps.
	Position int

	// Content is the trimmed chunk text.
	Content string

	// Embedding is the vector representation for semantic search.
	// Nil when embedding generation failed; the chunk then participates
	// in keyword search only.
	Embedding []float32
}

// DocumentKind is a closed enumeration of content origins. The string
// values match what is persisted in the content_type column.
type DocumentKind string

// Document kinds.
const (
	DocumentKindText      DocumentKind = "text"
	DocumentKindPDF       DocumentKind = "pdf"
	DocumentKindAudio     DocumentKind = "audio"
	DocumentKindVideo     DocumentKind = "video"
	DocumentKindImage     DocumentKind = "image"
	DocumentKindWeb       DocumentKind = "web"
	DocumentKindGenerated DocumentKind = "generated"
)

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindText, DocumentKindPDF, DocumentKindAudio,
		DocumentKindVideo, DocumentKindImage, DocumentKindWeb,
		DocumentKindGenerated:
		return true
	}
	return false
}
