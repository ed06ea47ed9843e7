// Package web extracts readable text from web pages.
package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// noiseSelectors are stripped before text extraction.
const noiseSelectors = "script, style, noscript, nav, header, footer, iframe, form"

// Extractor fetches a URL and extracts the readable text.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates a web page extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// CanExtract reports whether the source is an http(s) URL.
func (e *Extractor) CanExtract(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Extract fetches the page and returns its readable text.
func (e *Extractor) Extract(ctx context.Context, source string) (*driven.Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, source)
	}
	req.Header.Set("User-Agent", "studydesk/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", source, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	text := ExtractText(doc)
	if text == "" {
		return nil, fmt.Errorf("%w: no readable text at %s", domain.ErrInvalidInput, source)
	}

	return &driven.Extraction{
		SourcePath: source,
		Filename:   pageFilename(doc, source),
		Kind:       domain.DocumentKindWeb,
		Text:       text,
	}, nil
}

// ExtractText pulls readable text from a parsed page: noise elements
// are removed, then block-level text is joined with blank lines so the
// chunker sees paragraph boundaries.
func ExtractText(doc *goquery.Document) string {
	doc.Find(noiseSelectors).Remove()

	root := doc.Find("main, article").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	var parts []string
	root.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td").Each(func(_ int, s *goquery.Selection) {
		// Skip containers whose text is already covered by a nested
		// block element.
		if s.Find("p, li, pre, blockquote").Length() > 0 {
			return
		}
		t := strings.TrimSpace(s.Text())
		if t != "" {
			parts = append(parts, collapseSpace(t))
		}
	})

	if len(parts) == 0 {
		return collapseSpace(strings.TrimSpace(root.Text()))
	}
	return strings.Join(parts, "\n\n")
}

// pageFilename derives a display name from the page title, falling
// back to the URL host and path.
func pageFilename(doc *goquery.Document, source string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return collapseSpace(title)
	}
	if u, err := url.Parse(source); err == nil {
		name := u.Host + u.Path
		return strings.TrimSuffix(name, "/")
	}
	return source
}

// collapseSpace normalizes runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
