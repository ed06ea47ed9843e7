package driving

import (
	"context"
	"time"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// ReviewQuality is the 0-5 recall rating supplied after a review.
type ReviewQuality int

// Named quality grades. Anything below QualityOK counts as a failure.
const (
	QualityBlackout ReviewQuality = 0
	QualityWrong    ReviewQuality = 1
	QualityHard     ReviewQuality = 2
	QualityOK       ReviewQuality = 3
	QualityGood     ReviewQuality = 4
	QualityEasy     ReviewQuality = 5
)

// StudyService manages quiz generation and spaced repetition.
type StudyService interface {
	// SaveItems stores generated study items.
	SaveItems(ctx context.Context, items []domain.StudyItem) error

	// DueItems returns items due for review, oldest overdue first.
	DueItems(ctx context.Context, now time.Time, limit int) ([]domain.StudyItem, error)

	// CountDue returns the number of due items.
	CountDue(ctx context.Context, now time.Time) (int, error)

	// Review applies a recall rating to an item and persists the
	// rescheduled result.
	Review(ctx context.Context, itemID string, quality ReviewQuality) (*domain.StudyItem, error)
}
