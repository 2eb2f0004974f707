// Package providers implements HTTP adapters for the supported LLM
// backends. Each adapter builds a provider-specific request from a prompt
// and parses the provider's JSON response into plain completion text.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Supported provider names.
const (
	// ProviderOllama targets a local Ollama server's /api/chat endpoint.
	ProviderOllama = "ollama"

	// ProviderOpenAI targets an OpenAI-compatible /v1/chat/completions
	// endpoint, hosted or local.
	ProviderOpenAI = "openai"
)

// Provider errors.
var (
	// ErrEmptyCompletion indicates the provider returned a well-formed
	// response with no completion text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Config holds per-provider connection settings.
type Config struct {
	// Endpoint is the base URL. Empty selects the adapter's default.
	Endpoint string

	// Model names the model to invoke.
	Model string

	// APIKey authenticates hosted providers; ignored by Ollama.
	APIKey string

	// Temperature is passed through to the provider's sampling options.
	Temperature float64

	// Headers adds extra headers to every request.
	Headers map[string]string
}

// Adapter translates between the normalized prompt/completion contract and
// one provider's wire format.
type Adapter interface {
	// Name returns the provider name for error context and logging.
	Name() string

	// Build constructs the provider HTTP request for a single prompt.
	Build(ctx context.Context, prompt string) (*http.Request, error)

	// Parse extracts the completion text from the provider response.
	Parse(resp *http.Response) (string, error)
}

// StatusError reports a non-2xx provider response with whatever detail the
// provider's error payload carried.
type StatusError struct {
	// Provider is the adapter name.
	Provider string

	// StatusCode is the HTTP status returned.
	StatusCode int

	// Message is the provider's error description, if any.
	Message string
}

// Error returns a formatted description of the provider failure.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}
