package domain

import "time"

// MinEaseFactor is the floor for an item's ease factor. The SM-2 update
// never pushes ease below this value.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the starting ease for a freshly created item.
const DefaultEaseFactor = 2.5

// StudyItem is a question/answer pair subject to spaced repetition.
// Items are created by quiz/flashcard generation and mutated only by
// the review scheduler; they are never deleted automatically.
type StudyItem struct {
	// ID is the unique identifier for the item.
	ID string

	// DocumentID links to the source document, when known.
	DocumentID string

	// Kind identifies the item format.
	Kind StudyItemKind

	// Front is the prompt shown to the user.
	Front string

	// Back is the expected answer.
	Back string

	// NextReview is when the item next becomes due.
	NextReview time.Time

	// IntervalDays is the current review interval. Fractional days are
	// permitted.
	IntervalDays float64

	// EaseFactor is the SM-2 difficulty multiplier, floored at
	// MinEaseFactor.
	EaseFactor float64

	// ReviewCount is the number of consecutive successful reviews.
	// A failed review resets it to zero.
	ReviewCount int

	// CreatedAt is when the item was generated.
	CreatedAt time.Time

	// UpdatedAt is when the item was last reviewed or edited.
	UpdatedAt time.Time
}

// Due reports whether the item is due for review at the given time.
func (i StudyItem) Due(now time.Time) bool {
	return !i.NextReview.After(now)
}

// StudyItemKind is a closed enumeration of study item formats. The
// string values match what is persisted in the item_type column.
type StudyItemKind string

// Study item kinds.
const (
	StudyItemFlashcard StudyItemKind = "flashcard"
	StudyItemQuizMC    StudyItemKind = "quiz_mc"
	StudyItemQuizFill  StudyItemKind = "quiz_fill"
	StudyItemQuizShort StudyItemKind = "quiz_short"
)

// Valid reports whether k is a known study item kind.
func (k StudyItemKind) Valid() bool {
	switch k {
	case StudyItemFlashcard, StudyItemQuizMC, StudyItemQuizFill, StudyItemQuizShort:
		return true
	}
	return false
}
