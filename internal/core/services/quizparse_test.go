package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

func TestParseQuiz_MultipleChoice(t *testing.T) {
	text := `1. What organelle produces most of the cell's ATP?
a) Nucleus
b) Mitochondria
c) Ribosome
d) Golgi apparatus
Answer: b

2. Which molecule carries genetic information?
a) RNA only
b) Protein
c) DNA
Answer: C`

	result := ParseQuiz(text)
	require.Len(t, result.Questions, 2)

	q1 := result.Questions[0]
	assert.Equal(t, domain.StudyItemQuizMC, q1.Kind)
	assert.Equal(t, "What organelle produces most of the cell's ATP?", q1.Question)
	require.Len(t, q1.Options, 4)
	assert.Equal(t, byte('b'), q1.Correct)
	assert.Equal(t, "Mitochondria", q1.ExpectedAnswer())

	q2 := result.Questions[1]
	assert.Equal(t, byte('c'), q2.Correct)
	assert.Equal(t, "DNA", q2.ExpectedAnswer())
}

func TestParseQuiz_MissingAnswerIsSkippedNotGuessed(t *testing.T) {
	text := `1. Orphan question with options but no answer line?
a) First
b) Second

2. Complete question?
a) Yes
b) No
Answer: a`

	result := ParseQuiz(text)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Complete question?", result.Questions[0].Question)
}

func TestParseQuiz_FillInTheBlank(t *testing.T) {
	text := `1. The powerhouse of the cell is the ___.
Answer: mitochondria`

	result := ParseQuiz(text)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, domain.StudyItemQuizFill, result.Questions[0].Kind)
	assert.Equal(t, "mitochondria", result.Questions[0].Answer)
}

func TestParseQuiz_ShortAnswer(t *testing.T) {
	text := `Q: Explain why enzymes lower activation energy.
Answer: They stabilize the transition state of the reaction.`

	result := ParseQuiz(text)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, domain.StudyItemQuizShort, result.Questions[0].Kind)
	assert.Equal(t, "They stabilize the transition state of the reaction.", result.Questions[0].Answer)
}

func TestParseQuiz_MarkdownDecoration(t *testing.T) {
	text := `**1.** Which base pairs with adenine in DNA?
a) Guanine
b) Thymine
c) Cytosine
**Answer: b**`

	result := ParseQuiz(text)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Which base pairs with adenine in DNA?", result.Questions[0].Question)
	assert.Equal(t, byte('b'), result.Questions[0].Correct)
}

func TestParseQuiz_UnparseableKeepsRaw(t *testing.T) {
	text := "Here are some thoughts about biology, with no questions."

	result := ParseQuiz(text)
	assert.Empty(t, result.Questions)
	assert.Equal(t, text, result.Raw)
}

func TestParseFlashcards(t *testing.T) {
	text := `Q: What is osmosis?
A: Diffusion of water across a semipermeable membrane.

Q: Missing answer card

Q: What is diffusion?
A: Net movement of particles from high to low concentration.`

	cards := ParseFlashcards(text)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is osmosis?", cards[0].Front)
	assert.Equal(t, "Diffusion of water across a semipermeable membrane.", cards[0].Back)
	assert.Equal(t, "What is diffusion?", cards[1].Front)
}

func TestStudyItemsFromQuestions(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	questions := []QuizQuestion{
		{
			Kind:     domain.StudyItemQuizMC,
			Question: "Pick one",
			Options:  []QuizOption{{Letter: 'a', Text: "right"}, {Letter: 'b', Text: "wrong"}},
			Correct:  'a',
		},
		{
			Kind:     domain.StudyItemQuizShort,
			Question: "Explain",
			Answer:   "because",
		},
		{
			// Correct letter matching no option produces no answer text;
			// the item is dropped.
			Kind:     domain.StudyItemQuizMC,
			Question: "Broken",
			Options:  []QuizOption{{Letter: 'a', Text: "only"}},
			Correct:  'c',
		},
	}

	items := StudyItemsFromQuestions(questions, "doc-1", now)
	require.Len(t, items, 2)

	assert.Equal(t, "Pick one", items[0].Front)
	assert.Equal(t, "right", items[0].Back)
	assert.Equal(t, "doc-1", items[0].DocumentID)
	assert.Equal(t, now, items[0].NextReview)
	assert.Equal(t, 1.0, items[0].IntervalDays)
	assert.Equal(t, domain.DefaultEaseFactor, items[0].EaseFactor)
	assert.NotEmpty(t, items[0].ID)
}

func TestStudyItemsFromFlashcards(t *testing.T) {
	now := time.Now().UTC()
	cards := []Flashcard{{Front: "front", Back: "back"}}

	items := StudyItemsFromFlashcards(cards, "", now)
	require.Len(t, items, 1)
	assert.Equal(t, domain.StudyItemFlashcard, items[0].Kind)
	assert.Empty(t, items[0].DocumentID)
}

func TestGradeShortAnswer(t *testing.T) {
	expected := "They stabilize the transition state"

	assert.True(t, GradeShortAnswer(expected, "enzymes stabilize the transition state of reactions"))
	assert.True(t, GradeShortAnswer(expected, "They stabilize the transition state"))
	assert.False(t, GradeShortAnswer(expected, "no idea"))
	assert.False(t, GradeShortAnswer(expected, ""))
	assert.False(t, GradeShortAnswer("", "anything"))
}

func TestGradeShortAnswer_ThresholdIsStrict(t *testing.T) {
	// 2 of 5 expected words (40%) is not enough; the overlap must exceed
	// the threshold.
	expected := "alpha beta gamma delta epsilon"
	assert.False(t, GradeShortAnswer(expected, "alpha beta"))
	assert.True(t, GradeShortAnswer(expected, "alpha beta gamma"))
}
