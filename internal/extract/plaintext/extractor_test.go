package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

func TestCanExtract(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.CanExtract("notes.txt"))
	assert.True(t, e.CanExtract("README.md"))
	assert.True(t, e.CanExtract("/abs/path/Notes.MD"))
	assert.False(t, e.CanExtract("slides.pdf"))
	assert.False(t, e.CanExtract("photo.png"))
	assert.False(t, e.CanExtract("https://example.com/page.md"))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "biology.md")
	require.NoError(t, os.WriteFile(path, []byte("# Cells\n\nThe cell is the basic unit of life.\n"), 0o600))

	e := NewExtractor()
	extraction, err := e.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, extraction.SourcePath)
	assert.Equal(t, "biology.md", extraction.Filename)
	assert.Equal(t, domain.DocumentKindText, extraction.Kind)
	assert.Equal(t, "# Cells\n\nThe cell is the basic unit of life.", extraction.Text)
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtract_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n\t\n"), 0o600))

	e := NewExtractor()
	_, err := e.Extract(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_BinaryContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o600))

	e := NewExtractor()
	_, err := e.Extract(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}
