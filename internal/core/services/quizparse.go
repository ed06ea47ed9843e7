package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// QuizOption is one multiple-choice option.
type QuizOption struct {
	Letter byte
	Text   string
}

// QuizQuestion is a single parsed question. Kind determines which
// fields are populated: Options and Correct for multiple choice, Answer
// for everything.
type QuizQuestion struct {
	Kind     domain.StudyItemKind
	Question string
	Options  []QuizOption
	Correct  byte
	Answer   string
}

// QuizParseResult is the outcome of parsing LLM-generated quiz text.
// Parsing is heuristic and lossy: Questions may be empty even for
// non-empty Raw, and the caller decides whether to fall back to showing
// the raw text.
type QuizParseResult struct {
	Questions []QuizQuestion
	Raw       string
}

// ParseQuiz extracts structured questions from free-form generated quiz
// text. A question whose answer cannot be located is dropped rather
// than guessed.
func ParseQuiz(text string) QuizParseResult {
	result := QuizParseResult{Raw: text}
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) {
		question, ok := extractQuestionText(strings.TrimSpace(lines[i]))
		if !ok {
			i++
			continue
		}

		// Collect consecutive option lines (a-d).
		var options []QuizOption
		j := i + 1
		for j < len(lines) {
			letter, text, ok := extractOption(strings.TrimSpace(lines[j]))
			if !ok {
				break
			}
			options = append(options, QuizOption{Letter: letter, Text: text})
			j++
		}

		if len(options) >= 2 {
			correct, found := findAnswerLetter(lines[j:])
			if !found {
				// Ambiguous shape: no answer line. Skip, don't guess.
				i = j
				continue
			}
			result.Questions = append(result.Questions, QuizQuestion{
				Kind:     domain.StudyItemQuizMC,
				Question: question,
				Options:  options,
				Correct:  correct,
			})
			i = j + 1
			continue
		}

		if strings.Contains(question, "___") {
			if answer, found := findAnswerText(lines[j:]); found {
				result.Questions = append(result.Questions, QuizQuestion{
					Kind:     domain.StudyItemQuizFill,
					Question: question,
					Answer:   answer,
				})
				i = j + 1
				continue
			}
		}

		if answer, found := findAnswerText(lines[i+1:]); found {
			result.Questions = append(result.Questions, QuizQuestion{
				Kind:     domain.StudyItemQuizShort,
				Question: question,
				Answer:   answer,
			})
			i = j + 1
			continue
		}

		i++
	}

	return result
}

// Flashcard is one parsed question/answer pair.
type Flashcard struct {
	Front string
	Back  string
}

// ParseFlashcards extracts "Q: ... / A: ..." pairs from generated
// flashcard text. Cards missing either side are dropped.
func ParseFlashcards(text string) []Flashcard {
	var cards []Flashcard
	var front string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Q:"):
			front = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "A:"):
			back := strings.TrimSpace(line[2:])
			if front != "" && back != "" {
				cards = append(cards, Flashcard{Front: front, Back: back})
			}
			front = ""
		}
	}

	return cards
}

// ExpectedAnswer resolves the expected answer text for any question
// kind. For multiple choice this is the text of the correct option.
func (q QuizQuestion) ExpectedAnswer() string {
	if q.Kind != domain.StudyItemQuizMC {
		return q.Answer
	}
	for _, o := range q.Options {
		if o.Letter == q.Correct {
			return o.Text
		}
	}
	return ""
}

// StudyItemsFromQuestions converts parsed questions into storable study
// items. The item type tags are preserved verbatim for persistence.
func StudyItemsFromQuestions(questions []QuizQuestion, documentID string, now time.Time) []domain.StudyItem {
	items := make([]domain.StudyItem, 0, len(questions))
	for _, q := range questions {
		back := q.ExpectedAnswer()
		if back == "" {
			continue
		}
		items = append(items, domain.StudyItem{
			ID:           uuid.New().String(),
			DocumentID:   documentID,
			Kind:         q.Kind,
			Front:        q.Question,
			Back:         back,
			NextReview:   now,
			IntervalDays: 1,
			EaseFactor:   domain.DefaultEaseFactor,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return items
}

// StudyItemsFromFlashcards converts parsed flashcards into storable
// study items.
func StudyItemsFromFlashcards(cards []Flashcard, documentID string, now time.Time) []domain.StudyItem {
	items := make([]domain.StudyItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, domain.StudyItem{
			ID:           uuid.New().String(),
			DocumentID:   documentID,
			Kind:         domain.StudyItemFlashcard,
			Front:        c.Front,
			Back:         c.Back,
			NextReview:   now,
			IntervalDays: 1,
			EaseFactor:   domain.DefaultEaseFactor,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return items
}

// GradeShortAnswer grades a free-text answer by word overlap with the
// expected answer: correct when more than 40% of the expected words
// appear in the response.
func GradeShortAnswer(expected, answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return false
	}

	expectedWords := wordSet(expected)
	answerWords := wordSet(answer)
	if len(expectedWords) == 0 {
		return false
	}

	overlap := 0
	for w := range expectedWords {
		if _, ok := answerWords[w]; ok {
			overlap++
		}
	}

	return float64(overlap)/float64(len(expectedWords)) > 0.4
}

// extractQuestionText recognizes "Q: text", "1. text", "1) text" and
// markdown-bold numbered forms, returning the bare question text.
func extractQuestionText(line string) (string, bool) {
	if strings.HasPrefix(line, "Q:") || strings.HasPrefix(line, "Q.") {
		text := strings.TrimSpace(line[2:])
		return text, text != ""
	}

	// "**1.** question"
	if strings.HasPrefix(line, "**") {
		inner := strings.TrimPrefix(line, "**")
		if end := strings.Index(inner, "**"); end >= 0 {
			numPart := inner[:end]
			if strings.ContainsAny(numPart, "0123456789") {
				rest := strings.TrimSpace(strings.TrimPrefix(inner[end:], "**"))
				if rest != "" {
					return rest, true
				}
			}
		}
	}

	// "1. question", "1) question", "1: question"
	if len(line) > 0 && line[0] >= '0' && line[0] <= '9' {
		numEnd := 0
		for numEnd < len(line) && line[numEnd] >= '0' && line[numEnd] <= '9' {
			numEnd++
		}
		rest := strings.TrimSpace(strings.TrimLeft(line[numEnd:], ".):"))
		if rest != "" {
			return rest, true
		}
	}

	return "", false
}

// extractOption recognizes "a) text", "b. text", "c: text" option lines.
func extractOption(line string) (byte, string, bool) {
	if len(line) < 3 {
		return 0, "", false
	}

	letter := line[0]
	if letter < 'a' || letter > 'd' {
		return 0, "", false
	}

	sep := line[1]
	if sep != ')' && sep != '.' && sep != ':' {
		return 0, "", false
	}

	text := strings.TrimSpace(line[2:])
	if text == "" {
		return 0, "", false
	}
	return letter, text, true
}

// findAnswerLetter scans up to three lines for an "Answer: x" marker
// and returns the option letter following the marker.
func findAnswerLetter(lines []string) (byte, bool) {
	for _, line := range lines[:min(3, len(lines))] {
		lower := strings.ToLower(strings.TrimSpace(line))
		idx := strings.Index(lower, "answer")
		if idx < 0 {
			continue
		}
		for i := idx + len("answer"); i < len(lower); i++ {
			c := lower[i]
			if c >= 'a' && c <= 'd' {
				return c, true
			}
		}
	}
	return 0, false
}

// findAnswerText scans up to three lines for an "Answer: ..." line and
// returns the answer with markdown decoration stripped.
func findAnswerText(lines []string) (string, bool) {
	for _, line := range lines[:min(3, len(lines))] {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if !strings.HasPrefix(lower, "**answer") && !strings.HasPrefix(lower, "answer") {
			continue
		}

		text := strings.TrimPrefix(trimmed, "**")
		text = strings.TrimPrefix(text, "Answer")
		text = strings.TrimPrefix(text, "answer")
		text = strings.TrimPrefix(text, "**")
		text = strings.TrimPrefix(text, ":")
		text = strings.TrimPrefix(text, "**")
		text = strings.TrimSpace(text)
		text = strings.TrimSuffix(text, "**")
		text = strings.TrimSpace(text)

		if text != "" {
			return text, true
		}
	}
	return "", false
}
