package llm

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Client with additional behavior. Middlewares compose
// outside-in: the first applied wrapper observes the whole call.
type Middleware func(Client) Client

// loggingClient adds structured request/response logging around generation
// calls. Prompts and completions are logged by length, not content — raw
// text belongs in the interaction trace, not the operational log.
type loggingClient struct {
	next   Client
	logger *slog.Logger
}

// NewLoggingMiddleware returns middleware that logs each generation call
// with latency and payload sizes. A nil logger selects slog.Default().
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Client) Client {
		return &loggingClient{next: next, logger: logger}
	}
}

// Generate delegates to the wrapped client, logging outcome and latency.
func (c *loggingClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	response, err := c.next.Generate(ctx, prompt)
	latency := time.Since(start)

	if err != nil {
		c.logger.ErrorContext(ctx, "generation call failed",
			"prompt_chars", len(prompt),
			"latency_ms", latency.Milliseconds(),
			"error", err)
		return "", err
	}

	c.logger.DebugContext(ctx, "generation call completed",
		"prompt_chars", len(prompt),
		"response_chars", len(response),
		"latency_ms", latency.Milliseconds())

	return response, nil
}
