package driven

import (
	"context"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// Extraction is the normalized output of an extractor: plain text plus
// enough metadata to create a document.
type Extraction struct {
	// SourcePath is the canonical source identifier.
	SourcePath string

	// Filename is the display name derived from the source.
	Filename string

	// Kind classifies the content origin.
	Kind domain.DocumentKind

	// Text is the extracted plain text.
	Text string
}

// Extractor converts one class of raw source (file type, URL) into
// plain text. Parsing of PDFs, images and audio lives behind this port;
// the core never touches raw bytes.
type Extractor interface {
	// CanExtract reports whether this extractor handles the source.
	CanExtract(source string) bool

	// Extract produces normalized text for the source.
	Extract(ctx context.Context, source string) (*Extraction, error)
}
