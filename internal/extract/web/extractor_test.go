package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>  Krebs   Cycle </title><style>p { color: red }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>The Krebs Cycle</h1>
<p>The Krebs cycle oxidizes acetyl-CoA to carbon dioxide.</p>
<script>console.log("tracking")</script>
<ul><li>Produces NADH</li><li>Produces FADH2</li></ul>
</article>
<footer>Copyright</footer>
</body>
</html>`

func TestCanExtract(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.CanExtract("https://example.com/notes"))
	assert.True(t, e.CanExtract("http://localhost:8080/page"))
	assert.False(t, e.CanExtract("notes.txt"))
	assert.False(t, e.CanExtract("ftp://example.com/file"))
}

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := NewExtractor()
	extraction, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, extraction.SourcePath)
	assert.Equal(t, "Krebs Cycle", extraction.Filename)
	assert.Equal(t, domain.DocumentKindWeb, extraction.Kind)

	assert.Contains(t, extraction.Text, "The Krebs cycle oxidizes acetyl-CoA")
	assert.Contains(t, extraction.Text, "Produces NADH")
	// Noise elements are stripped.
	assert.NotContains(t, extraction.Text, "tracking")
	assert.NotContains(t, extraction.Text, "Home")
	assert.NotContains(t, extraction.Text, "Copyright")
	// Blocks are separated so the chunker sees paragraph boundaries.
	assert.Contains(t, extraction.Text, "\n\n")
}

func TestExtract_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewExtractor()
	_, err := e.Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<html><body>bare   text without block elements</body></html>"))
	require.NoError(t, err)

	assert.Equal(t, "bare text without block elements", ExtractText(doc))
}

func TestPageFilename_FallsBackToURL(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	assert.Equal(t, "example.com/notes", pageFilename(doc, "https://example.com/notes/"))
}
