// Package comparison runs two chain variants head-to-head across a dataset
// and determines per-example winners under two independent methods: the
// cheap rule-based faithfulness comparison and the expensive pairwise LLM
// judge. The agreement rate between the two is the run's key signal — it
// says whether the deterministic metric is a usable proxy for the judge.
//
// To counter positional bias in the judge, the chain presented first is
// randomly permuted per example. That permutation is the only
// non-determinism in the core and is isolated behind a single injectable
// random source so runs are reproducible under a fixed seed.
package comparison

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/domain"
	"github.com/ahrav/go-abeval/internal/judge"
	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/internal/metrics"
	"github.com/ahrav/go-abeval/pkg/trace"
)

// Options controls one A/B run.
type Options struct {
	// UseJudge enables the pairwise judge pass, one collaborator call per
	// example on top of the two generation calls.
	UseJudge bool

	// Rand supplies the positional de-biasing decisions, one draw per
	// example. Nil selects a time-seeded source; tests inject a fixed seed
	// for reproducibility.
	Rand *rand.Rand
}

// rng resolves the effective random source.
func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Comparator runs A/B comparisons. Like the evaluator it is strictly
// sequential: both generations and the optional judge call for one example
// complete before the next example starts.
type Comparator struct {
	client llm.Client
	judge  *judge.Judge
	sink   trace.Sink
	logger *slog.Logger
}

// New creates a comparator over the given generation client. A nil sink
// disables interaction tracing; a nil logger selects slog.Default().
func New(client llm.Client, sink trace.Sink, logger *slog.Logger) *Comparator {
	if sink == nil {
		sink = trace.NoOpSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{
		client: client,
		judge:  judge.New(client, sink),
		sink:   sink,
		logger: logger,
	}
}

// Compare runs both chains on every example and returns the ordered
// per-example comparison records plus the run summary. Each chain is
// invoked independently on the same input; neither sees the other's output.
// A generation or judge transport failure aborts the run with the example
// index and stage.
func (c *Comparator) Compare(
	ctx context.Context,
	chainA, chainB *chains.Chain,
	examples []domain.Example,
	opts Options,
) ([]domain.ComparisonResult, *domain.ComparisonSummary, error) {
	c.logger.InfoContext(ctx, "starting A/B comparison",
		"chain_a", chainA.ID(),
		"chain_b", chainB.ID(),
		"examples", len(examples),
		"use_judge", opts.UseJudge)

	rng := opts.rng()

	results := make([]domain.ComparisonResult, 0, len(examples))
	for i, example := range examples {
		c.logger.InfoContext(ctx, "comparing example",
			"index", i, "total", len(examples))

		result, err := c.compareExample(ctx, chainA, chainB, i, example, opts, rng)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}

	summary := buildSummary(results, opts.UseJudge)

	c.logger.InfoContext(ctx, "A/B comparison complete",
		"pairs", summary.TotalPairs,
		"rule_a_win_rate", summary.Rule.AWinRate)

	return results, summary, nil
}

// compareExample produces the comparison record for one example.
func (c *Comparator) compareExample(
	ctx context.Context,
	chainA, chainB *chains.Chain,
	index int,
	example domain.Example,
	opts Options,
	rng *rand.Rand,
) (domain.ComparisonResult, error) {
	outputA, err := chainA.Run(ctx, c.client, c.sink, example.Input)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("example %d: chain_a: %w", index, err)
	}
	outputB, err := chainB.Run(ctx, c.client, c.sink, example.Input)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("example %d: chain_b: %w", index, err)
	}

	faithA := metrics.Faithfulness(outputA, example.Reference)
	faithB := metrics.Faithfulness(outputB, example.Reference)

	result := domain.ComparisonResult{
		Index:         index,
		Input:         example.Input,
		OutputA:       outputA,
		OutputB:       outputB,
		FaithfulnessA: faithA,
		FaithfulnessB: faithB,
		RuleWinner:    ruleWinner(faithA, faithB),
	}

	if opts.UseJudge {
		if err := c.judgePair(ctx, &result, example.Input, outputA, outputB, rng); err != nil {
			return domain.ComparisonResult{}, fmt.Errorf("example %d: judge: %w", index, err)
		}
	}

	return result, nil
}

// ruleWinner picks the chain with strictly higher faithfulness. A tie goes
// to chain A — a deliberate, deterministic tie-break, preserved as
// specified behavior rather than something to build further logic on.
func ruleWinner(faithA, faithB float64) domain.Winner {
	if faithB > faithA {
		return domain.WinnerChainB
	}
	return domain.WinnerChainA
}

// judgePair runs the de-biased pairwise judgment and maps the positional
// winner back to a chain. The swap decision is the single random draw per
// example; chain identities never reach the judge.
func (c *Comparator) judgePair(
	ctx context.Context,
	result *domain.ComparisonResult,
	input, outputA, outputB string,
	rng *rand.Rand,
) error {
	swapped := rng.Intn(2) == 1

	first, second := outputA, outputB
	if swapped {
		first, second = outputB, outputA
	}

	judgment, err := c.judge.Pairwise(ctx, input, first, second)
	if err != nil {
		return err
	}

	winner := domain.WinnerChainA
	if (judgment.Winner == domain.PositionFirst) == swapped {
		winner = domain.WinnerChainB
	}

	result.JudgeWinner = winner
	result.Confidence = judgment.Confidence
	result.Reasoning = judgment.Reasoning
	result.Swapped = swapped
	return nil
}

// buildSummary tallies wins per method and the agreement rate between them.
// Deterministic and order-independent: counts first, divide once.
func buildSummary(results []domain.ComparisonResult, useJudge bool) *domain.ComparisonSummary {
	summary := &domain.ComparisonSummary{TotalPairs: len(results)}
	if len(results) == 0 {
		return summary
	}

	var ruleAWins, judgeAWins, agreements int
	for _, r := range results {
		if r.RuleWinner == domain.WinnerChainA {
			ruleAWins++
		}
		if r.JudgeWinner == domain.WinnerChainA {
			judgeAWins++
		}
		if r.JudgeWinner != "" && r.RuleWinner == r.JudgeWinner {
			agreements++
		}
	}

	n := len(results)
	summary.Rule = tally(ruleAWins, n)

	if useJudge {
		judgeTally := tally(judgeAWins, n)
		summary.Judge = &judgeTally

		rate := float64(agreements) / float64(n)
		summary.AgreementRate = &rate
	}

	return summary
}

// tally builds a win tally from chain A's win count.
func tally(aWins, total int) domain.WinTally {
	return domain.WinTally{
		AWins:    aWins,
		BWins:    total - aWins,
		AWinRate: float64(aWins) / float64(total),
	}
}
