// Package chunker splits document text into overlapping, boundary-aware
// chunks for indexing and retrieval.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default target chunk size in bytes (~250 tokens).
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between chunks in bytes.
const DefaultOverlap = 200

// Break-point fractions. A paragraph break only counts when it falls
// past the halfway point of the window; sentence breaks and newlines
// past one third. These are empirically chosen and kept configurable.
const (
	defaultParagraphFraction = 0.5
	defaultSentenceFraction  = 1.0 / 3.0
)

// sentenceEnds are checked in order; the first terminator found past
// the sentence fraction wins.
var sentenceEnds = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// Chunk is one slice of the input text. Start and End are byte offsets
// into the trimmed input; Text is additionally trimmed.
type Chunk struct {
	Text  string
	Index int
	Start int
	End   int
}

// Splitter splits text into overlapping chunks. Splitting is
// deterministic: identical input and configuration always produce the
// identical chunk sequence.
type Splitter struct {
	chunkSize         int
	overlap           int
	paragraphFraction float64
	sentenceFraction  float64
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithBreakFractions overrides the minimum window fractions for
// paragraph and sentence break points.
func WithBreakFractions(paragraph, sentence float64) Option {
	return func(s *Splitter) {
		if paragraph > 0 && paragraph < 1 {
			s.paragraphFraction = paragraph
		}
		if sentence > 0 && sentence < 1 {
			s.sentenceFraction = sentence
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:         DefaultChunkSize,
		overlap:           DefaultOverlap,
		paragraphFraction: defaultParagraphFraction,
		sentenceFraction:  defaultSentenceFraction,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Overlap must leave room for forward progress.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split divides text into chunks. Empty (after trimming) input produces
// no chunks; input at or under the chunk size produces exactly one.
// Chunk indices are dense over emitted chunks: a window that trims to
// empty is dropped without consuming an index.
func (s *Splitter) Split(text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if len(text) <= s.chunkSize {
		return []Chunk{{Text: text, Index: 0, Start: 0, End: len(text)}}
	}

	chunks := make([]Chunk, 0, len(text)/(s.chunkSize-s.overlap)+1)
	start := 0
	index := 0

	for start < len(text) {
		end := start + s.chunkSize
		if end > len(text) {
			end = len(text)
		}
		end = charBoundary(text, end)

		if end < len(text) {
			end = s.breakPoint(text, start, end)
		}

		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			chunks = append(chunks, Chunk{Text: piece, Index: index, Start: start, End: end})
			index++
		}

		if end >= len(text) {
			break
		}

		// Step back by the overlap, but never stall: if the overlap
		// would put us at or before the previous start, continue from
		// the window end instead.
		next := end
		if end > s.overlap {
			next = charBoundary(text, end-s.overlap)
		}
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// breakPoint searches backward from end for the best place to cut the
// window [start, end), in priority order: paragraph break, sentence
// terminator, newline, space. Falls back to the raw boundary.
func (s *Splitter) breakPoint(text string, start, end int) int {
	region := text[start:end]
	regionLen := float64(len(region))

	if p := strings.LastIndex(region, "\n\n"); p >= 0 && float64(p) > regionLen*s.paragraphFraction {
		return start + p + 2
	}

	for _, term := range sentenceEnds {
		if p := strings.LastIndex(region, term); p >= 0 && float64(p) > regionLen*s.sentenceFraction {
			return start + p + len(term)
		}
	}

	if p := strings.LastIndexByte(region, '\n'); p >= 0 && float64(p) > regionLen*s.sentenceFraction {
		return start + p + 1
	}

	if p := strings.LastIndexByte(region, ' '); p >= 0 {
		return start + p + 1
	}

	return end
}

// charBoundary snaps pos to the nearest UTF-8 rune boundary at or
// before it, so a window never splits a multi-byte character.
func charBoundary(text string, pos int) int {
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
