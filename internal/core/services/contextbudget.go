package services

import (
	"strings"
	"unicode/utf8"
)

// Budget constants. The tokens-to-characters ratio is a coarse
// approximation; the clamp keeps context from starving a short
// remaining budget or flooding an oversized one.
const (
	CharsPerToken    = 4
	MinContextChars  = 1500
	MaxContextChars  = 12000
	ChatContextChars = 6000
	GenContextChars  = 10000
)

// perChunkCap limits how much of a single chunk may enter the context.
const perChunkCap = 1500

// TruncateContent cuts content to at most maxLen bytes, preferring (in
// order) a sentence end, a paragraph break, then a single newline as
// the cut point. When no break point exists it hard-cuts and appends an
// ellipsis. The cut never splits a multi-byte character.
func TruncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	if maxLen <= 0 {
		return ""
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	truncated := content[:cut]

	if pos := strings.LastIndex(truncated, ". "); pos >= 0 {
		return truncated[:pos] + "."
	}
	if pos := strings.LastIndex(truncated, "\n\n"); pos >= 0 {
		return truncated[:pos]
	}
	if pos := strings.LastIndexByte(truncated, '\n'); pos >= 0 {
		return truncated[:pos]
	}

	// No break point at all: hard-cut with an ellipsis marker, still
	// within maxLen.
	cut = maxLen - len(ellipsis)
	if cut <= 0 {
		return ""
	}
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + ellipsis
}

const ellipsis = "..."

// AvailableBudget converts a model context window in tokens into a
// character budget for retrieved context, after subtracting the space
// already consumed by the system prompt and the running conversation.
// The result is clamped to [MinContextChars, MaxContextChars].
func AvailableBudget(systemPromptLen, conversationLen, modelContextTokens int) int {
	budget := modelContextTokens*CharsPerToken - systemPromptLen - conversationLen

	if budget < MinContextChars {
		return MinContextChars
	}
	if budget > MaxContextChars {
		return MaxContextChars
	}
	return budget
}
