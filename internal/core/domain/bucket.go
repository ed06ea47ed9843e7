package domain

import (
	"strings"
	"unicode"
)

// Bucket is an isolated named collection of documents. Each bucket owns
// its own database file under the data directory; at most one bucket is
// "current" at a time, tracked in the config store.
type Bucket struct {
	// Name is the normalized bucket name.
	Name string

	// Path is the bucket's directory on disk.
	Path string
}

// DatabaseFile is the name of the per-bucket database file.
const DatabaseFile = "documents.db"

// NormalizeBucketName canonicalizes a user-typed bucket name so two
// spellings of the same name never collide or diverge: lowercased,
// whitespace replaced with dashes, everything else non-alphanumeric
// stripped (dashes and underscores survive).
func NormalizeBucketName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('-')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
