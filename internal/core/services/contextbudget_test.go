package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateContent_ShortContentUntouched(t *testing.T) {
	assert.Equal(t, "short", TruncateContent("short", 100))
}

func TestTruncateContent_PrefersSentenceEnd(t *testing.T) {
	content := "First sentence. Second sentence. Third sentence that runs long."
	got := TruncateContent(content, 40)

	assert.Equal(t, "First sentence. Second sentence.", got)
	assert.LessOrEqual(t, len(got), 40)
}

func TestTruncateContent_FallsBackToParagraphBreak(t *testing.T) {
	content := "first paragraph without periods\n\nsecond paragraph also long"
	got := TruncateContent(content, 40)

	assert.Equal(t, "first paragraph without periods", got)
}

func TestTruncateContent_FallsBackToNewline(t *testing.T) {
	content := "line one no period\nline two keeps going past the limit"
	got := TruncateContent(content, 30)

	assert.Equal(t, "line one no period", got)
}

func TestTruncateContent_HardCutWithEllipsis(t *testing.T) {
	content := strings.Repeat("x", 100)
	got := TruncateContent(content, 20)

	assert.Equal(t, strings.Repeat("x", 17)+"...", got)
	assert.LessOrEqual(t, len(got), 20)
}

func TestTruncateContent_NeverExceedsMaxLen(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 50),
		"sentence one. sentence two. sentence three.",
		strings.Repeat("日本語テキスト", 30),
	}
	for _, content := range inputs {
		for _, maxLen := range []int{5, 17, 64, 200} {
			got := TruncateContent(content, maxLen)
			assert.LessOrEqual(t, len(got), maxLen, "content %q maxLen %d", content[:10], maxLen)
		}
	}
}

func TestTruncateContent_MultiByteSafe(t *testing.T) {
	content := strings.Repeat("é", 50)
	got := TruncateContent(content, 21)

	assert.True(t, strings.HasSuffix(got, "..."))
	// The cut must land on a rune boundary.
	assert.True(t, strings.HasPrefix(content, strings.TrimSuffix(got, "...")))
}

func TestTruncateContent_TinyBudget(t *testing.T) {
	assert.Equal(t, "", TruncateContent("anything at all", 0))
	assert.Equal(t, "", TruncateContent("xxxxxxxx", 2))
}

func TestAvailableBudget(t *testing.T) {
	// 8192 tokens * 4 chars = 32768, minus overhead, clamped to max.
	assert.Equal(t, MaxContextChars, AvailableBudget(500, 1000, 8192))

	// Mid-range budget passes through unclamped.
	assert.Equal(t, 2000, AvailableBudget(1000, 1000, 1000))

	// A starved budget is floored.
	assert.Equal(t, MinContextChars, AvailableBudget(5000, 5000, 1000))
}
