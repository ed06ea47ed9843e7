package driven

import (
	"context"
	"time"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// StudyStore persists study items for one bucket.
type StudyStore interface {
	// InsertItems stores new study items in one batch.
	InsertItems(ctx context.Context, items []domain.StudyItem) error

	// GetItem retrieves a study item by ID.
	GetItem(ctx context.Context, id string) (*domain.StudyItem, error)

	// DueItems returns items with NextReview at or before now, ordered
	// by ascending NextReview (oldest overdue first).
	DueItems(ctx context.Context, now time.Time, limit int) ([]domain.StudyItem, error)

	// CountDue returns the number of items due at now.
	CountDue(ctx context.Context, now time.Time) (int, error)

	// UpdateItem persists scheduler changes to an existing item.
	UpdateItem(ctx context.Context, item *domain.StudyItem) error

	// ListItems returns all study items, newest first.
	ListItems(ctx context.Context) ([]domain.StudyItem, error)
}
