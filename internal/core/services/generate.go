package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
)

// Generator produces study content (guides, summaries, flashcards,
// quizzes) grounded in the bucket's documents.
type Generator struct {
	llm       driven.LLMService
	retriever driving.RetrievalService
	store     driven.DocumentStore
}

// NewGenerator creates a content generation service.
func NewGenerator(llm driven.LLMService, retriever driving.RetrievalService, store driven.DocumentStore) *Generator {
	return &Generator{llm: llm, retriever: retriever, store: store}
}

// GenerationContext assembles document context for a generation
// request. With a topic it runs hybrid retrieval; without one it packs
// the most recent documents, so generation over "all materials" works
// even before anything is embedded.
func (g *Generator) GenerationContext(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)

	if topic != "" {
		blocks, err := g.retriever.BuildContext(ctx, topic, GenContextChars)
		if err != nil && !errors.Is(err, domain.ErrEmptyQuery) {
			return "", err
		}
		if rendered := RenderContext(blocks); rendered != "" {
			return rendered, nil
		}
	}

	docs, err := g.store.ListDocuments(ctx)
	if err != nil {
		return "", fmt.Errorf("listing documents: %w", err)
	}

	var blocks []domain.ContextBlock
	total := 0
	for _, d := range docs {
		remaining := GenContextChars - total
		if remaining <= 0 {
			break
		}
		block := domain.ContextBlock{DocumentName: d.Filename, Position: -1}
		overhead := len(renderLabel(block)) + len(blockSeparator)
		if remaining <= overhead {
			break
		}

		limit := perChunkCap
		if remaining-overhead < limit {
			limit = remaining - overhead
		}
		content := TruncateContent(d.Content, limit)
		if content == "" {
			continue
		}
		block.Content = content
		blocks = append(blocks, block)
		total += overhead + len(content)
	}

	return RenderContext(blocks), nil
}

// Generate runs one content-generation request and returns the raw
// model output.
func (g *Generator) Generate(ctx context.Context, kind GenerationKind, topic string) (string, error) {
	if g.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt, ok := PromptFor(kind)
	if !ok {
		return "", fmt.Errorf("%w: unknown generation kind %q", domain.ErrInvalidInput, kind)
	}

	docContext, err := g.GenerationContext(ctx, topic)
	if err != nil {
		return "", err
	}
	if docContext == "" {
		return "", fmt.Errorf("%w: no documents in bucket", domain.ErrNotFound)
	}

	var userContent string
	if strings.TrimSpace(topic) == "" {
		userContent = fmt.Sprintf(
			"Create a %s from the following course materials:\n\n%s",
			string(kind), docContext,
		)
	} else {
		userContent = fmt.Sprintf(
			"Create a %s focused on '%s' from the following course materials:\n\n%s",
			string(kind), topic, docContext,
		)
	}

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: prompt},
		{Role: domain.RoleUser, Content: userContent},
	}

	return g.llm.Chat(ctx, messages)
}

// GenerateQuiz generates and parses a quiz. The raw text survives in
// the result so callers can fall back to displaying it when parsing
// recovers nothing.
func (g *Generator) GenerateQuiz(ctx context.Context, topic string) (*QuizParseResult, error) {
	var userSuffix string
	if strings.TrimSpace(topic) == "" {
		userSuffix = "Cover the most important topics."
	} else {
		userSuffix = "Focus on: " + topic
	}

	docContext, err := g.GenerationContext(ctx, topic)
	if err != nil {
		return nil, err
	}
	if docContext == "" {
		return nil, fmt.Errorf("%w: no documents in bucket", domain.ErrNotFound)
	}
	if g.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt, _ := PromptFor(GenQuiz)
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: prompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf(
			"Create an interactive quiz from these materials:\n\n%s\n\n%s",
			docContext, userSuffix,
		)},
	}

	raw, err := g.llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	result := ParseQuiz(raw)
	return &result, nil
}

// GenerateFlashcards generates and parses flashcards.
func (g *Generator) GenerateFlashcards(ctx context.Context, topic string) ([]Flashcard, string, error) {
	raw, err := g.Generate(ctx, GenFlashcards, topic)
	if err != nil {
		return nil, "", err
	}
	return ParseFlashcards(raw), raw, nil
}
