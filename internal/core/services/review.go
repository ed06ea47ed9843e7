package services

import (
	"context"
	"fmt"
	"time"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
)

// secondsPerDay converts fractional-day intervals to whole seconds.
const secondsPerDay = 86400

// NextReview applies the SM-2 update rule to a study item for the given
// recall quality and reference time, returning the rescheduled item.
//
// Ease always moves by the quality-dependent delta but never drops
// below domain.MinEaseFactor. A quality below 3 is a failure: the
// interval resets to one day and the review count to zero. On success
// the interval follows the 1 day / 6 days / interval*ease progression.
func NextReview(item domain.StudyItem, quality driving.ReviewQuality, now time.Time) domain.StudyItem {
	if quality < driving.QualityBlackout {
		quality = driving.QualityBlackout
	}
	if quality > driving.QualityEasy {
		quality = driving.QualityEasy
	}
	q := float64(quality)

	ease := item.EaseFactor + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < domain.MinEaseFactor {
		ease = domain.MinEaseFactor
	}

	var interval float64
	count := item.ReviewCount

	if quality < driving.QualityOK {
		interval = 1
		count = 0
	} else {
		switch item.ReviewCount {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = item.IntervalDays * ease
		}
		count = item.ReviewCount + 1
	}

	item.EaseFactor = ease
	item.IntervalDays = interval
	item.ReviewCount = count
	item.NextReview = now.Add(time.Duration(interval*secondsPerDay) * time.Second)
	item.UpdatedAt = now

	return item
}

// Ensure StudyManager implements the interface.
var _ driving.StudyService = (*StudyManager)(nil)

// StudyManager persists study items and applies the review scheduler.
type StudyManager struct {
	store driven.StudyStore
	now   func() time.Time
}

// NewStudyManager creates a study service backed by the given store.
func NewStudyManager(store driven.StudyStore) *StudyManager {
	return &StudyManager{
		store: store,
		now:   time.Now,
	}
}

// SaveItems stores generated study items.
func (s *StudyManager) SaveItems(ctx context.Context, items []domain.StudyItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.store.InsertItems(ctx, items); err != nil {
		return fmt.Errorf("save study items: %w", err)
	}
	return nil
}

// DueItems returns items due for review, oldest overdue first.
func (s *StudyManager) DueItems(ctx context.Context, now time.Time, limit int) ([]domain.StudyItem, error) {
	if now.IsZero() {
		now = s.now()
	}
	return s.store.DueItems(ctx, now, limit)
}

// CountDue returns the number of due items.
func (s *StudyManager) CountDue(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = s.now()
	}
	return s.store.CountDue(ctx, now)
}

// Review applies a recall rating to an item and persists the result.
func (s *StudyManager) Review(ctx context.Context, itemID string, quality driving.ReviewQuality) (*domain.StudyItem, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get study item: %w", err)
	}

	updated := NextReview(*item, quality, s.now())
	if err := s.store.UpdateItem(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update study item: %w", err)
	}

	return &updated, nil
}
