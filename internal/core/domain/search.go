package domain

// MatchOrigin records which search strategy produced a retrieved chunk.
type MatchOrigin string

// Match origins.
const (
	OriginKeyword  MatchOrigin = "keyword"
	OriginSemantic MatchOrigin = "semantic"
	OriginDocument MatchOrigin = "document"
)

// RetrievedChunk is a chunk that survived hybrid retrieval, annotated
// with its owning document and match provenance.
type RetrievedChunk struct {
	// ChunkID identifies the chunk.
	ChunkID string

	// DocumentID identifies the owning document.
	DocumentID string

	// Position is the chunk's ordinal within its document.
	Position int

	// Content is the chunk text.
	Content string

	// Score is the strategy-native relevance score. Keyword and
	// semantic scores are not comparable across origins.
	Score float64

	// Origin records which strategy matched this chunk.
	Origin MatchOrigin
}

// ContextBlock is one labeled fragment of assembled context, ready to
// be concatenated into a prompt by the chat collaborator.
type ContextBlock struct {
	// DocumentName is the display name of the source document.
	DocumentName string

	// Position is the chunk ordinal, or -1 for whole-document fallback
	// blocks.
	Position int

	// Content is the (possibly truncated) text.
	Content string
}

// ChatMessage is a single turn in a conversation handed to the LLM
// collaborator.
type ChatMessage struct {
	Role    string
	Content string
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
