package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
)

// fakeLLM records the last prompt and returns a canned reply.
type fakeLLM struct {
	reply    string
	err      error
	lastSent []domain.ChatMessage
}

func (f *fakeLLM) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	f.lastSent = messages
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func chatFixture(t *testing.T, reply string) (*Chat, *fakeLLM, *fakeDocumentStore) {
	t.Helper()
	store := newFakeDocumentStore()
	store.addDocument("d1", "notes.txt", "The Krebs cycle oxidizes acetyl-CoA to carbon dioxide.")
	store.searchChunks = func(query string, limit int) ([]domain.Chunk, error) {
		return []domain.Chunk{
			{ID: "c1", DocumentID: "d1", Position: 0, Content: "The Krebs cycle oxidizes acetyl-CoA."},
		}, nil
	}

	llm := &fakeLLM{reply: reply}
	retriever := NewRetriever(store, nil, RetrieverOptions{})
	return NewChat(llm, retriever, store), llm, store
}

func TestChat_SystemPromptDependsOnDocuments(t *testing.T) {
	ctx := context.Background()

	empty := NewChat(&fakeLLM{}, nil, newFakeDocumentStore())
	prompt, err := empty.SystemPrompt(ctx)
	require.NoError(t, err)
	assert.Equal(t, NoDocsSystemPrompt, prompt)

	chat, _, _ := chatFixture(t, "")
	prompt, err = chat.SystemPrompt(ctx)
	require.NoError(t, err)
	assert.Equal(t, GroundedSystemPrompt, prompt)
}

func TestChat_AskInjectsContextButKeepsHistoryClean(t *testing.T) {
	chat, llm, _ := chatFixture(t, "It oxidizes acetyl-CoA.")

	history := []domain.ChatMessage{{Role: domain.RoleSystem, Content: GroundedSystemPrompt}}
	answer, history, err := chat.Ask(context.Background(), history, "what is the Krebs cycle")
	require.NoError(t, err)

	assert.Equal(t, "It oxidizes acetyl-CoA.", answer)

	// The prompt sent to the model carries the retrieved context.
	sent := llm.lastSent[len(llm.lastSent)-1]
	assert.Contains(t, sent.Content, "CONTEXT FROM YOUR STUDY MATERIALS:")
	assert.Contains(t, sent.Content, "Krebs cycle oxidizes")
	assert.Contains(t, sent.Content, "QUESTION: what is the Krebs cycle")

	// The persisted history carries only the bare question and reply.
	require.Len(t, history, 3)
	assert.Equal(t, "what is the Krebs cycle", history[1].Content)
	assert.Equal(t, domain.RoleAssistant, history[2].Role)
	assert.Equal(t, "It oxidizes acetyl-CoA.", history[2].Content)
}

func TestChat_AskEmptyQuestion(t *testing.T) {
	chat, _, _ := chatFixture(t, "reply")

	_, _, err := chat.Ask(context.Background(), nil, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestChat_AskNilLLM(t *testing.T) {
	chat := NewChat(nil, nil, newFakeDocumentStore())

	_, _, err := chat.Ask(context.Background(), nil, "question")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChat_AskLLMFailureLeavesHistoryUnchanged(t *testing.T) {
	chat, llm, _ := chatFixture(t, "")
	llm.err = domain.ErrLLMUnavailable

	history := []domain.ChatMessage{{Role: domain.RoleSystem, Content: GroundedSystemPrompt}}
	_, got, err := chat.Ask(context.Background(), history, "question about cycles")
	assert.Error(t, err)
	assert.Len(t, got, 1)
}

func TestGenerator_GeneratePassesPromptAndContext(t *testing.T) {
	store := newFakeDocumentStore()
	store.addDocument("d1", "notes.txt", "Glycolysis splits glucose into two pyruvate molecules.")

	llm := &fakeLLM{reply: "# Study Guide"}
	retriever := NewRetriever(store, nil, RetrieverOptions{})
	gen := NewGenerator(llm, retriever, store)

	out, err := gen.Generate(context.Background(), GenStudyGuide, "")
	require.NoError(t, err)
	assert.Equal(t, "# Study Guide", out)

	require.Len(t, llm.lastSent, 2)
	assert.Equal(t, domain.RoleSystem, llm.lastSent[0].Role)
	wantPrompt, _ := PromptFor(GenStudyGuide)
	assert.Equal(t, wantPrompt, llm.lastSent[0].Content)
	assert.Contains(t, llm.lastSent[1].Content, "Glycolysis splits glucose")
}

func TestGenerator_GenerateUnknownKind(t *testing.T) {
	gen := NewGenerator(&fakeLLM{}, nil, newFakeDocumentStore())

	_, err := gen.Generate(context.Background(), GenerationKind("poem"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerator_GenerateEmptyBucket(t *testing.T) {
	store := newFakeDocumentStore()
	retriever := NewRetriever(store, nil, RetrieverOptions{})
	gen := NewGenerator(&fakeLLM{}, retriever, store)

	_, err := gen.Generate(context.Background(), GenSummary, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerator_GenerationContextBounded(t *testing.T) {
	store := newFakeDocumentStore()
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9"} {
		store.addDocument(id, id+".txt", strings.Repeat("Long content sentence. ", 200))
	}

	retriever := NewRetriever(store, nil, RetrieverOptions{})
	gen := NewGenerator(&fakeLLM{}, retriever, store)

	out, err := gen.GenerationContext(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), GenContextChars)
}

func TestGenerator_GenerateQuizParsesOutput(t *testing.T) {
	store := newFakeDocumentStore()
	store.addDocument("d1", "notes.txt", "Mitochondria produce ATP through oxidative phosphorylation.")

	llm := &fakeLLM{reply: `1. What do mitochondria produce?
a) DNA
b) ATP
Answer: b`}
	retriever := NewRetriever(store, nil, RetrieverOptions{})
	gen := NewGenerator(llm, retriever, store)

	result, err := gen.GenerateQuiz(context.Background(), "mitochondria")
	require.NoError(t, err)

	require.Len(t, result.Questions, 1)
	assert.Equal(t, byte('b'), result.Questions[0].Correct)
	assert.Contains(t, llm.lastSent[1].Content, "Focus on: mitochondria")
	assert.NotEmpty(t, result.Raw)
}

func TestGenerator_GenerateFlashcards(t *testing.T) {
	store := newFakeDocumentStore()
	store.addDocument("d1", "notes.txt", "Osmosis is the diffusion of water across membranes.")

	llm := &fakeLLM{reply: "Q: What is osmosis?\nA: Diffusion of water."}
	retriever := NewRetriever(store, nil, RetrieverOptions{})
	gen := NewGenerator(llm, retriever, store)

	cards, raw, err := gen.GenerateFlashcards(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "What is osmosis?", cards[0].Front)
	assert.NotEmpty(t, raw)
}

func TestPromptFor(t *testing.T) {
	for _, kind := range []GenerationKind{GenStudyGuide, GenFlashcards, GenQuiz, GenSummary, GenHomework} {
		prompt, ok := PromptFor(kind)
		assert.True(t, ok, string(kind))
		assert.NotEmpty(t, prompt)
	}

	_, ok := PromptFor(GenerationKind("haiku"))
	assert.False(t, ok)
}
