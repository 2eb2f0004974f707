package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOllamaEndpoint is the local Ollama server address.
const DefaultOllamaEndpoint = "http://localhost:11434"

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3"

// OllamaAdapter implements Adapter for a local Ollama server. It speaks the
// /api/chat endpoint with streaming disabled so each call yields exactly one
// complete message.
type OllamaAdapter struct {
	config Config
}

// NewOllamaAdapter creates an Ollama adapter, filling in the default local
// endpoint and model when unconfigured.
func NewOllamaAdapter(cfg Config) *OllamaAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOllamaEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	return &OllamaAdapter{config: cfg}
}

// Name returns the provider name.
func (a *OllamaAdapter) Name() string { return ProviderOllama }

// ollamaChatRequest is the /api/chat request payload.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// ollamaChatResponse is the non-streaming /api/chat response payload.
type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// Build constructs the /api/chat request for a single user prompt.
func (a *OllamaAdapter) Build(ctx context.Context, prompt string) (*http.Request, error) {
	body := ollamaChatRequest{
		Model:    a.config.Model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  ollamaOptions{Temperature: a.config.Temperature},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := a.config.Endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts the completion text from an Ollama response.
func (a *OllamaAdapter) Parse(resp *http.Response) (string, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parseOllamaError(resp.StatusCode, body)
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", &StatusError{Provider: ProviderOllama, StatusCode: resp.StatusCode, Message: parsed.Error}
	}
	if parsed.Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return parsed.Message.Content, nil
}

// parseOllamaError maps a non-200 response to a StatusError, surfacing the
// server's error field when the body is JSON.
func parseOllamaError(statusCode int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{Provider: ProviderOllama, StatusCode: statusCode, Message: payload.Error}
}
