// Package llm provides the text-generation collaborator used by chains and
// judges: a blocking, single-call client over an LLM provider's HTTP API.
// Provider specifics live behind the ProviderAdapter interface so the rest
// of the system depends only on "prompt in, text out".
//
// The client deliberately carries no resilience machinery — no retry, no
// rate limiting, no circuit breaking. Evaluation runs are sequential and
// offline; a provider failure is fatal to the run and surfaces to the
// caller, and callers needing a timeout wrap the context themselves.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ahrav/go-abeval/internal/llm/providers"
)

// Generation errors returned by the client.
var (
	// ErrUnknownProvider indicates the configured provider name is not supported.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmptyPrompt indicates a generation call was made with no prompt text.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// Client produces one text completion per call. Implementations block until
// the provider responds; output may be non-deterministic across calls even
// at temperature zero depending on the backing model.
type Client interface {
	// Generate sends a single prompt and returns the completion text.
	// Errors are fatal to the caller; the client never retries.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateFunc adapts a plain function to the Client interface. Used in
// tests to stub the collaborator with fixed outputs.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Client.
func (f GenerateFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Config holds provider selection and connection settings for the client.
type Config struct {
	// Provider selects the adapter: "ollama" or "openai".
	Provider string

	// Endpoint is the provider's base URL. Empty selects the adapter default.
	Endpoint string

	// Model names the model to invoke, e.g. "llama3" or "gpt-4o-mini".
	Model string

	// APIKey authenticates hosted providers. Unused by local Ollama.
	APIKey string

	// Temperature controls sampling randomness. The harness defaults to 0
	// so repeated runs are as repeatable as the backing model allows.
	Temperature float64

	// Timeout bounds each HTTP call. Zero selects DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client used to reach the provider.
	// Nil selects a client with the configured timeout.
	HTTPClient *http.Client

	// Logger receives per-call observability records. Nil selects
	// slog.Default().
	Logger *slog.Logger
}

// DefaultTimeout bounds provider HTTP calls when no timeout is configured.
// Local models can be slow on first load, so this is generous.
const DefaultTimeout = 5 * time.Minute

// NewClient builds a generation client for the configured provider, wrapped
// with logging middleware. Returns ErrUnknownProvider for provider names
// outside the supported set.
func NewClient(cfg Config) (Client, error) {
	adapter, err := newAdapter(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := &providerClient{adapter: adapter, httpClient: httpClient}
	return NewLoggingMiddleware(logger)(base), nil
}

// newAdapter resolves the provider name to its adapter.
func newAdapter(cfg Config) (providers.Adapter, error) {
	pc := providers.Config{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
	}

	switch cfg.Provider {
	case providers.ProviderOllama, "":
		return providers.NewOllamaAdapter(pc), nil
	case providers.ProviderOpenAI:
		return providers.NewOpenAIAdapter(pc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// providerClient executes one provider round trip per Generate call.
type providerClient struct {
	adapter    providers.Adapter
	httpClient *http.Client
}

// Generate builds the provider request, executes it, and parses the
// completion text. Any transport or provider error is returned as-is;
// callers treat generation failures as fatal.
func (c *providerClient) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	req, err := c.adapter.Build(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", c.adapter.Name(), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.adapter.Name(), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	text, err := c.adapter.Parse(resp)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.adapter.Name(), err)
	}
	return text, nil
}
