// Package sqlite provides the per-bucket storage adapter backed by
// SQLite with FTS5 full-text indexes.
package sqlite

import (
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/studydesk/studydesk-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage for one bucket. It provides
// access to the document and study store interfaces through wrapper
// types sharing a single connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the bucket database inside dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("bucket directory is required")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}

	dbPath := filepath.Join(dir, domain.DatabaseFile)

	// WAL mode for better concurrency across process invocations.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// StudyStore returns a StudyStore interface backed by this store.
func (s *Store) StudyStore() driven.StudyStore {
	return &studyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Helpers ====================

// embeddingElementSize is the byte width of one vector element.
const embeddingElementSize = 4

// encodeEmbedding serializes a vector to a flat little-endian float32
// byte sequence. Nil input stays nil so the column can be NULL.
func encodeEmbedding(embedding []float32) []byte {
	if embedding == nil {
		return nil
	}
	buf := make([]byte, len(embedding)*embeddingElementSize)
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*embeddingElementSize:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding deserializes a stored embedding blob. A length that
// is not a multiple of the element size is surfaced as corrupt data
// rather than silently coerced.
func decodeEmbedding(data []byte) ([]float32, error) {
	if data == nil {
		return nil, nil
	}
	if len(data)%embeddingElementSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrCorruptEmbedding, len(data))
	}

	embedding := make([]float32, len(data)/embeddingElementSize)
	for i := range embedding {
		bits := binary.LittleEndian.Uint32(data[i*embeddingElementSize:])
		embedding[i] = math.Float32frombits(bits)
	}
	return embedding, nil
}

// parseTime parses a stored RFC3339 timestamp.
func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrCorruptTimestamp, value)
	}
	return t, nil
}

// formatTime formats a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ftsQuery converts free text into a safe FTS5 match expression: each
// token becomes a quoted phrase and tokens are OR-ed, so punctuation in
// user queries can never produce a syntax error.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
