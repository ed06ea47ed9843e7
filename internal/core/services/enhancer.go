package services

import (
	"strings"
	"unicode"
)

// fillerPrefixes are conversational lead-ins stripped from queries
// before search. Longer, more specific entries come before their
// generic prefixes so only the first (most specific) match applies.
var fillerPrefixes = []string{
	"can you give me the answer for",
	"can you give me the answer to",
	"can you give me",
	"can you help me with",
	"can you explain",
	"could you explain",
	"could you help me with",
	"i need help with",
	"i need to understand",
	"i want to know about",
	"please help me with",
	"please explain",
	"what is the",
	"what are the",
	"what is",
	"what are",
	"how does the",
	"how does",
	"how do",
	"how is",
	"explain the",
	"explain",
	"tell me about",
	"describe the",
	"describe",
	"define the",
	"define",
	"why does",
	"why is",
	"why do",
	"when does",
	"when is",
	"where does",
	"where is",
	"give me the answer for",
	"give me the answer to",
	"give me",
}

// trailingFillers are noise phrases stripped only from the end of a query.
var trailingFillers = []string{
	"and all its sub questions",
	"and all sub questions",
	"and its sub questions",
	"and sub questions",
	"and all the sub questions",
}

// referenceKeywords mark the word before a numeric token worth
// preserving verbatim (exercise numbers, page numbers and the like).
var referenceKeywords = map[string]bool{
	"exercise":    true,
	"exercises":   true,
	"chapter":     true,
	"section":     true,
	"page":        true,
	"problem":     true,
	"problems":    true,
	"question":    true,
	"questions":   true,
	"figure":      true,
	"theorem":     true,
	"definition":  true,
	"example":     true,
	"lemma":       true,
	"corollary":   true,
	"proposition": true,
}

// EnhanceQuery rewrites a natural-language question into a
// search-optimized string. Filler prefixes and suffixes are stripped,
// and structured references ("exercise 0.3", "page 26") are appended as
// standalone terms so keyword search can match them exactly even though
// embedding similarity blurs numeric identifiers.
func EnhanceQuery(raw string) string {
	trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(raw), "?"))
	lower := strings.ToLower(trimmed)

	cleaned := trimmed
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimLeft(trimmed[len(prefix):], " \t")
			if rest != "" {
				cleaned = rest
			}
			break
		}
	}

	cleanedLower := strings.ToLower(cleaned)
	for _, suffix := range trailingFillers {
		if strings.HasSuffix(cleanedLower, suffix) {
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(suffix)])
			cleanedLower = strings.ToLower(cleaned)
		}
	}

	// "specifically" is filler when nothing follows it; when content
	// follows, keep the content and drop only the word.
	cleanedLower = strings.ToLower(cleaned)
	if pos := strings.Index(cleanedLower, " specifically"); pos >= 0 {
		after := strings.TrimSpace(cleaned[pos+len(" specifically"):])
		before := strings.TrimSpace(cleaned[:pos])
		if after == "" {
			cleaned = before
		} else {
			cleaned = before + " " + after
		}
	}

	refs := extractReferences(cleaned)
	if len(refs) > 0 {
		return cleaned + " " + strings.Join(refs, " ")
	}
	return cleaned
}

// extractReferences collects numeric tokens that immediately follow a
// reference keyword, e.g. "0.3" from "exercise 0.3".
func extractReferences(query string) []string {
	words := strings.Fields(strings.ToLower(query))

	var refs []string
	for i, word := range words {
		if !referenceKeywords[word] || i+1 >= len(words) {
			continue
		}
		next := words[i+1]
		if strings.ContainsFunc(next, unicode.IsDigit) {
			refs = append(refs, next)
		}
	}
	return refs
}
