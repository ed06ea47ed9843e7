// Package plaintext extracts text from local plain-text files
// (markdown, source code, notes).
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// textExtensions are the file extensions treated as plain text.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".rst":      true,
	".org":      true,
	".tex":      true,
	".csv":      true,
	".json":     true,
	".yaml":     true,
	".yml":      true,
	".toml":     true,
	".html":     true,
	".htm":      true,
}

// Extractor reads local text files.
type Extractor struct{}

// NewExtractor creates a plain-text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// CanExtract reports whether the source is a local file with a known
// text extension.
func (e *Extractor) CanExtract(source string) bool {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return false
	}
	return textExtensions[strings.ToLower(filepath.Ext(source))]
}

// Extract reads the file and returns its content as an extraction.
func (e *Extractor) Extract(ctx context.Context, source string) (*driven.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, source)
		}
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8 text",
			domain.ErrUnsupportedSource, source)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, source)
	}

	return &driven.Extraction{
		SourcePath: abs,
		Filename:   filepath.Base(abs),
		Kind:       domain.DocumentKindText,
		Text:       text,
	}, nil
}
