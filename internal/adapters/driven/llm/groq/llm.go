// Package groq provides a chat completion adapter for the Groq API,
// which speaks the OpenAI chat completions wire format.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond keeps interactive sessions under the
	// free-tier rate limit.
	DefaultRequestsPerSecond = 1
)

// Config holds configuration for the Groq chat service.
type Config struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	// Can point at any OpenAI-compatible endpoint.
	BaseURL string

	// Model is the chat model (default: domain.DefaultModel).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 1).
	RequestsPerSecond float64
}

// LLMService sends chat completions to Groq.
type LLMService struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// chatMessage is the OpenAI wire format for one conversation turn.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat completions request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the chat completions response format.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Groq chat service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Chat sends a conversation and returns the assistant reply. Transport
// failures wrap domain.ErrLLMUnavailable.
func (s *LLMService) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	wire := make([]chatMessage, len(messages))
	for i, m := range messages {
		wire[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: wire,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: groq: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: groq: read response: %v", domain.ErrLLMUnavailable, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: groq: decode response: %v", domain.ErrLLMUnavailable, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: groq: %s", domain.ErrLLMUnavailable, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: groq status %d: %s",
			domain.ErrLLMUnavailable, resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: groq: no choices returned", domain.ErrLLMUnavailable)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the chat model identifier.
func (s *LLMService) ModelName() string {
	return s.model
}
