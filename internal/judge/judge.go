// Package judge implements the LLM-as-judge protocol: single-output quality
// rating and pairwise A/B comparison. Judge responses are free text from an
// external model and are treated as untrusted input — each response gets
// one conservative transport-level repair pass, then a strict decode; any
// remaining mismatch produces the designated fallback record instead of an
// error. The parse-or-fallback path is total: a well-formed record is
// producible for every possible collaborator output.
package judge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-abeval/internal/domain"
	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/pkg/trace"
)

// Judge invokes the generation collaborator to score or compare outputs.
// Judges are stateless; no memory is carried across calls, and each
// judgment makes exactly one collaborator invocation.
type Judge struct {
	client llm.Client
	sink   trace.Sink
}

// New creates a judge over the given generation client. A nil sink disables
// interaction tracing.
func New(client llm.Client, sink trace.Sink) *Judge {
	if sink == nil {
		sink = trace.NoOpSink{}
	}
	return &Judge{client: client, sink: sink}
}

// Quality rates one output on the four quality dimensions plus an overall
// score. The reference is optional; pass an empty string when none exists.
//
// A collaborator transport failure is returned as an error and is fatal to
// the caller. A malformed response is not: it yields the fallback record
// with the raw response retained for diagnostics.
func (j *Judge) Quality(ctx context.Context, input, output, reference string) (domain.JudgeScore, error) {
	start := time.Now()
	prompt := qualityPrompt(input, output, reference)

	raw, err := j.client.Generate(ctx, prompt)
	if err != nil {
		return domain.JudgeScore{}, fmt.Errorf("judge quality: %w", err)
	}

	j.traceCall(ctx, "llm_judge_quality", map[string]string{
		"input":     input,
		"output":    output,
		"reference": reference,
	}, raw, start)

	response, err := parseQualityResponse(raw)
	if err != nil {
		return domain.FallbackJudgeScore(raw), nil
	}
	return response.Score(), nil
}

// Pairwise compares two outputs for the same input and picks a positional
// winner. Outputs are presented only as "A" and "B"; the caller owns any
// mapping from positions back to chains.
//
// Fallback on malformed responses: first position wins at minimum
// confidence, raw response retained.
func (j *Judge) Pairwise(ctx context.Context, input, outputA, outputB string) (domain.PairwiseJudgment, error) {
	start := time.Now()
	prompt := pairwisePrompt(input, outputA, outputB)

	raw, err := j.client.Generate(ctx, prompt)
	if err != nil {
		return domain.PairwiseJudgment{}, fmt.Errorf("judge pairwise: %w", err)
	}

	j.traceCall(ctx, "llm_judge_pairwise", map[string]string{
		"input":    input,
		"output_a": outputA,
		"output_b": outputB,
	}, raw, start)

	judgment, err := parsePairwiseResponse(raw)
	if err != nil {
		return domain.FallbackPairwiseJudgment(raw), nil
	}
	return judgment, nil
}

// traceCall appends the interaction to the audit trail, best-effort.
func (j *Judge) traceCall(ctx context.Context, name string, inputs map[string]string, raw string, start time.Time) {
	event := trace.NewEvent(name, inputs, raw, start)
	if err := j.sink.Append(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to append interaction trace",
			"judge_call", name, "error", err)
	}
}
