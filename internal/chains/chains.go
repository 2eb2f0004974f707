// Package chains implements the two summarization variants under
// comparison. A chain pairs a prompt template with an output contract: the
// baseline chain asks for free text, the structured chain demands a JSON
// payload with summary and sentiment fields. The set of chains is closed
// and resolved once at call entry via domain.ResolveChainID.
package chains

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-abeval/internal/domain"
	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/pkg/trace"
)

// outputSchema tells the structured chain's model exactly what JSON shape
// to return. Kept as a single line so the prompt stays compact.
const outputSchema = `Return ONLY JSON: {"summary": string, "sentiment": string}`

// Chain is one named summarization strategy. Chains are stateless; the same
// chain value can run any number of examples.
type Chain struct {
	id          domain.ChainID
	traceName   string
	buildPrompt func(text string) string
}

// ID returns the chain's identifier.
func (c *Chain) ID() domain.ChainID { return c.id }

// Prompt renders the chain's prompt for the given input text.
func (c *Chain) Prompt(text string) string { return c.buildPrompt(text) }

// Run invokes the generation client on the chain's prompt and audit-logs
// the interaction. Generation errors are returned to the caller and are
// fatal to the run; trace sink errors are logged and swallowed.
func (c *Chain) Run(ctx context.Context, client llm.Client, sink trace.Sink, text string) (string, error) {
	start := time.Now()

	output, err := client.Generate(ctx, c.Prompt(text))
	if err != nil {
		return "", fmt.Errorf("chain %s: %w", c.id, err)
	}

	event := trace.NewEvent(c.traceName, map[string]string{"text": text}, output, start)
	if err := sink.Append(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to append interaction trace",
			"chain", c.id, "error", err)
	}

	return output, nil
}

// baseline is the v0 chain: minimal instructions, free-text output.
var baseline = &Chain{
	id:        domain.ChainBaseline,
	traceName: "summarize_v0",
	buildPrompt: func(text string) string {
		return fmt.Sprintf("Summarize the following text in one clear, single sentence:\n%s", text)
	},
}

// structured is the v1 chain: an explicit rule list and a strict JSON
// output contract including a sentiment label.
var structured = &Chain{
	id:        domain.ChainStructured,
	traceName: "summarize_v1",
	buildPrompt: func(text string) string {
		return fmt.Sprintf(`You are a precise assistant that writes concise summaries.

Rules:
1. Summarize the input text in ONE factual sentence.
2. Do not add opinions or explanations.
3. Gauge the sentiment as one of: positive, negative, neutral.
4. Output must be exactly this JSON - no extra text:
%s

Input text:
%s
`, outputSchema, text)
	},
}

// ForID returns the chain implementing the given identifier. The identifier
// must be valid; callers resolve names through domain.ResolveChainID first.
func ForID(id domain.ChainID) (*Chain, error) {
	switch id {
	case domain.ChainBaseline:
		return baseline, nil
	case domain.ChainStructured:
		return structured, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownChain, id)
	}
}

// Resolve maps a chain name to its implementation, combining name
// resolution and chain lookup for CLI entry points.
func Resolve(name string) (*Chain, error) {
	id, err := domain.ResolveChainID(name)
	if err != nil {
		return nil, err
	}
	return ForID(id)
}
