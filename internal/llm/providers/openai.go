package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOpenAIEndpoint is OpenAI's production API base URL. Point Endpoint
// at any OpenAI-compatible server (vLLM, llama.cpp, LM Studio) to use a
// different backend without code changes.
const DefaultOpenAIEndpoint = "https://api.openai.com/v1"

// OpenAIAdapter implements Adapter for OpenAI-compatible chat completion
// APIs. It handles request formatting, bearer authentication, and response
// extraction for the /chat/completions endpoint.
type OpenAIAdapter struct {
	config Config
}

// NewOpenAIAdapter creates an OpenAI provider adapter with default endpoint.
func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOpenAIEndpoint
	}
	return &OpenAIAdapter{config: cfg}
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string { return ProviderOpenAI }

// Build constructs the chat/completions request for a single user prompt.
func (a *OpenAIAdapter) Build(ctx context.Context, prompt string) (*http.Request, error) {
	body := map[string]any{
		"model": a.config.Model,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
		"temperature": a.config.Temperature,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", a.config.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if a.config.APIKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.config.APIKey))
	}
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// openAIChatResponse is the subset of the chat/completions response the
// harness consumes.
type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Parse extracts the first choice's message content from an OpenAI response.
func (a *OpenAIAdapter) Parse(resp *http.Response) (string, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseOpenAIError(resp.StatusCode, body)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseOpenAIError maps a non-200 response to a StatusError, surfacing the
// error.message field that OpenAI-compatible servers return.
func parseOpenAIError(statusCode int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{Provider: ProviderOpenAI, StatusCode: statusCode, Message: payload.Error.Message}
}
