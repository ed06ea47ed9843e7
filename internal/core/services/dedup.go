package services

import (
	"strings"
	"unicode"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// DefaultOverlapThreshold is the Jaccard similarity above which two
// chunks are considered near-duplicates. Empirically chosen; see
// RetrieverOptions to override.
const DefaultOverlapThreshold = 0.8

// wordSet tokenizes text into a set of lower-cased words with
// non-alphanumeric edges stripped.
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// ChunksOverlap reports whether two texts share at least threshold
// word-level Jaccard similarity. Empty texts never overlap.
func ChunksOverlap(a, b string, threshold float64) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return false
	}

	return float64(intersection)/float64(union) >= threshold
}

// DeduplicateChunks drops chunks whose content nearly duplicates an
// earlier chunk in the list, keeping the first occurrence. This catches
// near-identical chunks from re-ingested or overlapping sources that
// slipped past id-level dedup.
func DeduplicateChunks(chunks []domain.RetrievedChunk, threshold float64) []domain.RetrievedChunk {
	kept := make([]domain.RetrievedChunk, 0, len(chunks))

	for _, c := range chunks {
		dup := false
		for _, existing := range kept {
			if ChunksOverlap(existing.Content, c.Content, threshold) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}

	return kept
}
