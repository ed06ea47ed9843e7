package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// InsertDocument stores a new document. Inserting a duplicate source
// path returns domain.ErrAlreadyExists.
func (s *documentStore) InsertDocument(ctx context.Context, doc *domain.Document) error {
	exists, err := s.ExistsBySourcePath(ctx, doc.SourcePath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: source %s", domain.ErrAlreadyExists, doc.SourcePath)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_path, filename, content_type, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourcePath, doc.Filename, string(doc.Kind), doc.Content, doc.Tags,
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))

	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// InsertChunks stores chunks in one transaction.
func (s *documentStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Position, c.Content, encodeEmbedding(c.Embedding)); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", c.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_path, filename, content_type, content, tags, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// GetChunk retrieves a chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, position, content, embedding
		FROM chunks WHERE id = ?
	`, id)

	chunk, err := scanChunk(row)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// GetChunks retrieves all chunks for a document ordered by position.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, embedding
		FROM chunks WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// ChunksWithEmbeddings returns every chunk carrying an embedding.
func (s *documentStore) ChunksWithEmbeddings(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, embedding
		FROM chunks WHERE embedding IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embedded chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// UpdateChunkEmbedding attaches an embedding to an existing chunk.
func (s *documentStore) UpdateChunkEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET embedding = ? WHERE id = ?",
		encodeEmbedding(embedding), chunkID)
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SearchChunks runs ranked full-text search over chunk content.
func (s *documentStore) SearchChunks(ctx context.Context, query string, limit int) ([]domain.Chunk, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.position, c.content, c.embedding
		FROM chunks c
		JOIN chunks_fts f ON c.rowid = f.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// SearchDocuments runs ranked full-text search over whole documents.
func (s *documentStore) SearchDocuments(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.id, d.source_path, d.filename, d.content_type, d.content, d.tags, d.created_at, d.updated_at
		FROM documents d
		JOIN documents_fts f ON d.rowid = f.rowid
		WHERE documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListDocuments returns all documents, newest first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_path, filename, content_type, content, tags, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ExistsBySourcePath reports whether a document with the source path is
// already stored.
func (s *documentStore) ExistsBySourcePath(ctx context.Context, sourcePath string) (bool, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE source_path = ?", sourcePath)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking source path: %w", err)
	}
	return count > 0, nil
}

// DeleteDocument removes a document; chunks cascade via foreign key.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountDocuments returns the number of stored documents.
func (s *documentStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// CountChunks returns the number of stored chunks.
func (s *documentStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ==================== Row scanning ====================

// rowScanner abstracts sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var kind, createdAt, updatedAt string

	if err := row.Scan(&doc.ID, &doc.SourcePath, &doc.Filename, &kind,
		&doc.Content, &doc.Tags, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Kind = domain.DocumentKind(kind)

	var err error
	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &doc, nil
}

// scanChunk reads one chunk row, decoding the embedding blob.
func scanChunk(row rowScanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var blob []byte

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Content, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	embedding, err := decodeEmbedding(blob)
	if err != nil {
		return nil, err
	}
	chunk.Embedding = embedding

	return &chunk, nil
}

// collectChunks drains chunk rows.
func collectChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// collectDocuments drains document rows.
func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}
