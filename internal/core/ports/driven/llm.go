package driven

import (
	"context"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// LLMService is the chat-completion collaborator. The retrieval core
// only supplies it an assembled context string inside the conversation;
// prompt formatting and transport belong to the adapter.
type LLMService interface {
	// Chat sends a conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)

	// ModelName returns the chat model identifier.
	ModelName() string
}
