package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// studyStore implements driven.StudyStore.
type studyStore struct {
	store *Store
}

var _ driven.StudyStore = (*studyStore)(nil)

// InsertItems stores study items in one transaction.
func (s *studyStore) InsertItems(ctx context.Context, items []domain.StudyItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO study_items (id, document_id, item_type, front, back, next_review,
			interval_days, ease_factor, review_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ID, nullString(item.DocumentID),
			string(item.Kind), item.Front, item.Back, formatTime(item.NextReview),
			item.IntervalDays, item.EaseFactor, item.ReviewCount,
			formatTime(item.CreatedAt), formatTime(item.UpdatedAt)); err != nil {
			return fmt.Errorf("inserting study item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing study items: %w", err)
	}
	return nil
}

// GetItem retrieves a study item by ID.
func (s *studyStore) GetItem(ctx context.Context, id string) (*domain.StudyItem, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, item_type, front, back, next_review,
			interval_days, ease_factor, review_count, created_at, updated_at
		FROM study_items WHERE id = ?
	`, id)
	return scanStudyItem(row)
}

// DueItems returns items due at now, oldest first.
func (s *studyStore) DueItems(ctx context.Context, now time.Time, limit int) ([]domain.StudyItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, item_type, front, back, next_review,
			interval_days, ease_factor, review_count, created_at, updated_at
		FROM study_items WHERE next_review <= ?
		ORDER BY next_review
		LIMIT ?
	`, formatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("querying due items: %w", err)
	}
	defer rows.Close()

	return collectStudyItems(rows)
}

// CountDue returns the number of items due at now.
func (s *studyStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM study_items WHERE next_review <= ?", formatTime(now))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting due items: %w", err)
	}
	return count, nil
}

// UpdateItem persists scheduler state for an existing item.
func (s *studyStore) UpdateItem(ctx context.Context, item *domain.StudyItem) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE study_items
		SET next_review = ?, interval_days = ?, ease_factor = ?, review_count = ?, updated_at = ?
		WHERE id = ?
	`, formatTime(item.NextReview), item.IntervalDays, item.EaseFactor,
		item.ReviewCount, formatTime(item.UpdatedAt), item.ID)
	if err != nil {
		return fmt.Errorf("updating study item: %w", err)
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

// ListItems returns all study items, newest first.
func (s *studyStore) ListItems(ctx context.Context) ([]domain.StudyItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, item_type, front, back, next_review,
			interval_days, ease_factor, review_count, created_at, updated_at
		FROM study_items ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing study items: %w", err)
	}
	defer rows.Close()

	return collectStudyItems(rows)
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// scanStudyItem reads one study item row.
func scanStudyItem(row rowScanner) (*domain.StudyItem, error) {
	var item domain.StudyItem
	var docID sql.NullString
	var kind, nextReview, createdAt, updatedAt string

	if err := row.Scan(&item.ID, &docID, &kind, &item.Front, &item.Back,
		&nextReview, &item.IntervalDays, &item.EaseFactor, &item.ReviewCount,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning study item: %w", err)
	}

	item.DocumentID = docID.String
	item.Kind = domain.StudyItemKind(kind)

	var err error
	if item.NextReview, err = parseTime(nextReview); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &item, nil
}

// collectStudyItems drains study item rows.
func collectStudyItems(rows *sql.Rows) ([]domain.StudyItem, error) {
	var items []domain.StudyItem
	for rows.Next() {
		item, err := scanStudyItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study items: %w", err)
	}
	return items, nil
}
