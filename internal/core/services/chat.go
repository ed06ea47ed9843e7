package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
	"github.com/studydesk/studydesk-cli/internal/logger"
)

// defaultContextTokens approximates the usable model context window for
// budgeting retrieved context.
const defaultContextTokens = 8192

// Chat orchestrates a grounded conversation: retrieve context for each
// question, hand the assembled block to the LLM, and keep the running
// conversation free of injected context.
type Chat struct {
	llm       driven.LLMService
	retriever driving.RetrievalService
	store     driven.DocumentStore
}

// NewChat creates a chat service.
func NewChat(llm driven.LLMService, retriever driving.RetrievalService, store driven.DocumentStore) *Chat {
	return &Chat{llm: llm, retriever: retriever, store: store}
}

// SystemPrompt picks the grounded or general-knowledge system prompt
// based on whether the bucket holds any documents.
func (c *Chat) SystemPrompt(ctx context.Context) (string, error) {
	count, err := c.store.CountDocuments(ctx)
	if err != nil {
		return "", fmt.Errorf("counting documents: %w", err)
	}
	if count > 0 {
		return GroundedSystemPrompt, nil
	}
	return NoDocsSystemPrompt, nil
}

// Ask answers one question within a running conversation. The returned
// history contains the bare question and the assistant reply; the
// retrieved context is injected only into the prompt sent to the LLM,
// never persisted in the history.
func (c *Chat) Ask(ctx context.Context, history []domain.ChatMessage, question string) (string, []domain.ChatMessage, error) {
	if c.llm == nil {
		return "", history, domain.ErrLLMUnavailable
	}

	conversationLen := 0
	for _, m := range history {
		conversationLen += len(m.Content)
	}
	systemLen := 0
	if len(history) > 0 && history[0].Role == domain.RoleSystem {
		systemLen = len(history[0].Content)
		conversationLen -= systemLen
	}

	budget := AvailableBudget(systemLen, conversationLen, defaultContextTokens)

	contextStr := ""
	blocks, err := c.retriever.BuildContext(ctx, question, budget)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "", history, err
	case err != nil:
		return "", history, fmt.Errorf("building context: %w", err)
	default:
		contextStr = RenderContext(blocks)
	}

	userContent := question
	if contextStr != "" {
		userContent = fmt.Sprintf(
			"CONTEXT FROM YOUR STUDY MATERIALS:\n%s\n\n---\n\nQUESTION: %s",
			contextStr, question,
		)
	}
	logger.Debug("Context budget %d chars, injected %d chars", budget, len(contextStr))

	prompt := make([]domain.ChatMessage, 0, len(history)+1)
	prompt = append(prompt, history...)
	prompt = append(prompt, domain.ChatMessage{Role: domain.RoleUser, Content: userContent})

	answer, err := c.llm.Chat(ctx, prompt)
	if err != nil {
		return "", history, fmt.Errorf("chat completion: %w", err)
	}

	history = append(history,
		domain.ChatMessage{Role: domain.RoleUser, Content: question},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
	)

	return answer, history, nil
}
