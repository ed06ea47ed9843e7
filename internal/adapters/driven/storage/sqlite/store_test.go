package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "studydesk-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument inserts a document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, id string) *domain.Document {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:         id,
		SourcePath: "/notes/" + id + ".txt",
		Filename:   id + ".txt",
		Kind:       domain.DocumentKindText,
		Content:    "Photosynthesis converts light energy into chemical energy.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, store.DocumentStore().InsertDocument(ctx, doc))
	return doc
}

// ==================== DocumentStore Tests ====================

func TestDocumentStore_InsertAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()

	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:         uuid.NewString(),
		SourcePath: "/notes/biology.txt",
		Filename:   "biology.txt",
		Kind:       domain.DocumentKindText,
		Content:    "The mitochondria is the powerhouse of the cell.",
		Tags:       "biology,cells",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	require.NoError(t, docStore.InsertDocument(ctx, doc))

	retrieved, err := docStore.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, doc.ID, retrieved.ID)
	assert.Equal(t, doc.SourcePath, retrieved.SourcePath)
	assert.Equal(t, doc.Filename, retrieved.Filename)
	assert.Equal(t, doc.Kind, retrieved.Kind)
	assert.Equal(t, doc.Content, retrieved.Content)
	assert.Equal(t, doc.Tags, retrieved.Tags)
	assert.WithinDuration(t, doc.CreatedAt, retrieved.CreatedAt, time.Second)
}

func TestDocumentStore_InsertDuplicateSourcePath(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	now := time.Now().UTC()
	dup := &domain.Document{
		ID:         uuid.NewString(),
		SourcePath: "/notes/doc-1.txt",
		Filename:   "doc-1.txt",
		Kind:       domain.DocumentKindText,
		Content:    "Different content, same source.",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := docStore.InsertDocument(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ExistsBySourcePath(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	exists, err := docStore.ExistsBySourcePath(ctx, "/notes/doc-1.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = docStore.ExistsBySourcePath(ctx, "/notes/other.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDocumentStore_ChunkRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Position:   0,
			Content:    "Light-dependent reactions occur in the thylakoid membrane.",
			Embedding:  []float32{0.1, -0.5, 2.25},
		},
		{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Position:   1,
			Content:    "The Calvin cycle fixes carbon dioxide into sugar.",
		},
	}
	require.NoError(t, docStore.InsertChunks(ctx, chunks))

	retrieved, err := docStore.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	assert.Equal(t, 0, retrieved[0].Position)
	assert.Equal(t, []float32{0.1, -0.5, 2.25}, retrieved[0].Embedding)
	assert.Equal(t, 1, retrieved[1].Position)
	assert.Nil(t, retrieved[1].Embedding)
}

func TestDocumentStore_ChunksWithEmbeddings(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "first", Embedding: []float32{1, 0}},
		{ID: "c2", DocumentID: doc.ID, Position: 1, Content: "second"},
		{ID: "c3", DocumentID: doc.ID, Position: 2, Content: "third", Embedding: []float32{0, 1}},
	}
	require.NoError(t, docStore.InsertChunks(ctx, chunks))

	embedded, err := docStore.ChunksWithEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 2)
	for _, c := range embedded {
		assert.NotNil(t, c.Embedding)
	}
}

func TestDocumentStore_UpdateChunkEmbedding(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunk := domain.Chunk{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "unembedded"}
	require.NoError(t, docStore.InsertChunks(ctx, []domain.Chunk{chunk}))

	require.NoError(t, docStore.UpdateChunkEmbedding(ctx, "c1", []float32{3.5, -1}))

	got, err := docStore.GetChunk(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []float32{3.5, -1}, got.Embedding)

	err = docStore.UpdateChunkEmbedding(ctx, "missing", []float32{1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SearchChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "Mitosis produces two identical daughter cells."},
		{ID: "c2", DocumentID: doc.ID, Position: 1, Content: "Meiosis produces four haploid gametes."},
		{ID: "c3", DocumentID: doc.ID, Position: 2, Content: "Enzymes lower the activation energy of reactions."},
	}
	require.NoError(t, docStore.InsertChunks(ctx, chunks))

	results, err := docStore.SearchChunks(ctx, "mitosis", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ID)
}

func TestDocumentStore_SearchChunks_PunctuationSafe(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "Version 0.3 of the retention formula."},
	}
	require.NoError(t, docStore.InsertChunks(ctx, chunks))

	// Tokens with punctuation must not break the FTS5 MATCH expression.
	_, err := docStore.SearchChunks(ctx, `what's "0.3" (approx)?`, 10)
	require.NoError(t, err)
}

func TestDocumentStore_SearchDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	createTestDocument(t, store, "doc-1")

	results, err := docStore.SearchDocuments(ctx, "photosynthesis", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1.txt", results[0].Filename)

	results, err = docStore.SearchDocuments(ctx, "thermodynamics", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDocumentStore_ListDocuments_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"old", "mid", "new"} {
		doc := &domain.Document{
			ID:         id,
			SourcePath: "/notes/" + id + ".txt",
			Filename:   id + ".txt",
			Kind:       domain.DocumentKindText,
			Content:    "content " + id,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, docStore.InsertDocument(ctx, doc))
	}

	docs, err := docStore.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[2].ID)
}

func TestDocumentStore_DeleteCascadesChunks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()
	doc := createTestDocument(t, store, "doc-1")

	chunks := []domain.Chunk{
		{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "chunk one"},
		{ID: "c2", DocumentID: doc.ID, Position: 1, Content: "chunk two"},
	}
	require.NoError(t, docStore.InsertChunks(ctx, chunks))

	require.NoError(t, docStore.DeleteDocument(ctx, doc.ID))

	_, err := docStore.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := docStore.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Deleted chunks must also drop out of keyword search.
	results, err := docStore.SearchChunks(ctx, "chunk", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDocumentStore_Counts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docStore := store.DocumentStore()

	count, err := docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	doc := createTestDocument(t, store, "doc-1")
	require.NoError(t, docStore.InsertChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: doc.ID, Position: 0, Content: "one"},
		{ID: "c2", DocumentID: doc.ID, Position: 1, Content: "two"},
	}))

	count, err = docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = docStore.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// ==================== Encoding Tests ====================

func TestEncodeDecodeEmbedding(t *testing.T) {
	original := []float32{0, 1.5, -2.75, 3.14159}

	decoded, err := decodeEmbedding(encodeEmbedding(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeEmbedding_NilStaysNil(t *testing.T) {
	assert.Nil(t, encodeEmbedding(nil))

	decoded, err := decodeEmbedding(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeEmbedding_CorruptLength(t *testing.T) {
	_, err := decodeEmbedding([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, domain.ErrCorruptEmbedding)
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"mitosis"`, ftsQuery("mitosis"))
	assert.Equal(t, `"cell" OR "division"`, ftsQuery("cell division"))
	assert.Equal(t, `"0.3"`, ftsQuery("0.3"))
	assert.Equal(t, "", ftsQuery("   "))
	// Embedded quotes are stripped, not escaped.
	assert.Equal(t, `"quoted"`, ftsQuery(`"quoted"`))
}
