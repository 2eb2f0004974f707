// Package evaluation runs one chain variant across a dataset and merges
// rule-based and judge-based scores into per-example result records plus an
// aggregate report.
//
// Processing is strictly sequential and order-preserving: one collaborator
// call completes before the next is issued, and result order matches
// dataset order, which downstream statistics rely on. A generation failure
// is fatal to the whole run — there is no per-example skip — while a
// malformed judge response is recovered through the judge's fallback and
// never aborts anything.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/domain"
	"github.com/ahrav/go-abeval/internal/judge"
	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/internal/metrics"
	"github.com/ahrav/go-abeval/internal/report"
	"github.com/ahrav/go-abeval/pkg/trace"
)

// Options controls one evaluation run.
type Options struct {
	// UseJudge enables the LLM judge pass, adding one collaborator call per
	// example. Significantly slower; the caller owns this tradeoff.
	UseJudge bool

	// MaxWords is the summary word limit for the length check. Zero selects
	// metrics.DefaultMaxWords.
	MaxWords int
}

// maxWords resolves the effective word limit.
func (o Options) maxWords() int {
	if o.MaxWords <= 0 {
		return metrics.DefaultMaxWords
	}
	return o.MaxWords
}

// Evaluator runs chains over datasets. The generation client and trace sink
// are injected once; each Evaluate call is an independent run with no state
// shared across examples.
type Evaluator struct {
	client llm.Client
	judge  *judge.Judge
	sink   trace.Sink
	logger *slog.Logger
}

// New creates an evaluator over the given generation client. A nil sink
// disables interaction tracing; a nil logger selects slog.Default().
func New(client llm.Client, sink trace.Sink, logger *slog.Logger) *Evaluator {
	if sink == nil {
		sink = trace.NoOpSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		client: client,
		judge:  judge.New(client, sink),
		sink:   sink,
		logger: logger,
	}
}

// Evaluate runs the chain on every example in dataset order and returns the
// ordered per-example records plus the aggregate report. An empty dataset
// yields empty results and a zero-count report, not an error. Any
// generation failure aborts the run with the example index and stage.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	chain *chains.Chain,
	examples []domain.Example,
	opts Options,
) ([]domain.EvalResult, *domain.AggregateReport, error) {
	e.logger.InfoContext(ctx, "starting evaluation run",
		"chain", chain.ID(),
		"examples", len(examples),
		"use_judge", opts.UseJudge)

	results := make([]domain.EvalResult, 0, len(examples))
	for i, example := range examples {
		e.logger.InfoContext(ctx, "evaluating example",
			"index", i, "total", len(examples))

		result, err := e.evaluateExample(ctx, chain, i, example, opts)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}

	// Aggregation runs once after all examples, never incrementally.
	rep := report.Build(chain.ID(), results)

	e.logger.InfoContext(ctx, "evaluation run complete",
		"chain", chain.ID(),
		"examples", rep.N,
		"schema_rate", rep.SchemaRate,
		"length_rate", rep.LengthRate,
		"faithfulness_mean", rep.Faithfulness.Mean)

	return results, rep, nil
}

// evaluateExample produces the merged record for one example: generation,
// rule scoring, and the optional judge pass.
func (e *Evaluator) evaluateExample(
	ctx context.Context,
	chain *chains.Chain,
	index int,
	example domain.Example,
	opts Options,
) (domain.EvalResult, error) {
	output, err := chain.Run(ctx, e.client, e.sink, example.Input)
	if err != nil {
		return domain.EvalResult{}, fmt.Errorf("example %d: generate: %w", index, err)
	}

	result := domain.EvalResult{
		Index:  index,
		Chain:  chain.ID(),
		Output: output,
		RuleScore: domain.RuleScore{
			SchemaOK:     metrics.SchemaOK(output),
			LengthOK:     metrics.LengthOK(output, opts.maxWords()),
			Faithfulness: metrics.Faithfulness(output, example.Reference),
		},
	}

	if opts.UseJudge {
		score, err := e.judge.Quality(ctx, example.Input, output, example.Reference)
		if err != nil {
			return domain.EvalResult{}, fmt.Errorf("example %d: judge: %w", index, err)
		}
		result.Judge = &score
	}

	return result, nil
}
