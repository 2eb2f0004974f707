// Package report turns an ordered sequence of per-example result records
// into the dataset-level AggregateReport. Aggregation is deterministic and
// independent of computation order — plain sums divided at the end, no
// streaming approximation — so the same records always produce the same
// report. Degenerate inputs get explicit guard clauses: an empty run yields
// a zero-count report and tiny samples omit quartiles, rather than raising.
package report

import (
	"math"
	"sort"

	"github.com/ahrav/go-abeval/internal/domain"
)

// Build computes the aggregate report for one evaluation run. Boolean
// checks become compliance rates; faithfulness, as the central metric,
// carries spread statistics. The judge block is present only when the run
// produced judge scores.
func Build(chain domain.ChainID, results []domain.EvalResult) *domain.AggregateReport {
	rep := &domain.AggregateReport{N: len(results), Chain: chain}
	if len(results) == 0 {
		return rep
	}

	var schemaHits, lengthHits int
	faithfulness := make([]float64, 0, len(results))
	for _, r := range results {
		if r.SchemaOK {
			schemaHits++
		}
		if r.LengthOK {
			lengthHits++
		}
		faithfulness = append(faithfulness, r.Faithfulness)
	}

	n := float64(len(results))
	rep.SchemaRate = float64(schemaHits) / n
	rep.LengthRate = float64(lengthHits) / n
	rep.Faithfulness = Summarize(faithfulness)
	rep.Judge = buildJudgeAggregate(results)

	return rep
}

// buildJudgeAggregate summarizes judge scores across the run, or returns
// nil when no record carries one (judging disabled).
func buildJudgeAggregate(results []domain.EvalResult) *domain.JudgeAggregate {
	var (
		overall, accuracy, clarity, completeness, conciseness []float64
		fallbacks                                             int
	)
	for _, r := range results {
		if r.Judge == nil {
			continue
		}
		overall = append(overall, r.Judge.Overall)
		accuracy = append(accuracy, float64(r.Judge.Accuracy))
		clarity = append(clarity, float64(r.Judge.Clarity))
		completeness = append(completeness, float64(r.Judge.Completeness))
		conciseness = append(conciseness, float64(r.Judge.Conciseness))
		if r.Judge.Fallback {
			fallbacks++
		}
	}
	if len(overall) == 0 {
		return nil
	}

	return &domain.JudgeAggregate{
		Overall:      Summarize(overall),
		Accuracy:     Summarize(accuracy),
		Clarity:      Summarize(clarity),
		Completeness: Summarize(completeness),
		Conciseness:  Summarize(conciseness),
		FallbackRate: float64(fallbacks) / float64(len(overall)),
	}
}

// Summarize computes descriptive statistics for one numeric field. The
// median is reported for any non-empty sample; quartiles only from
// domain.MinQuartileSamples upward, where they stop being misleading.
func Summarize(values []float64) domain.NumericSummary {
	summary := domain.NumericSummary{Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	summary.Mean = mean(values)
	summary.StdDev = stdDev(values, summary.Mean)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	median := quantile(sorted, 0.5)
	summary.Median = &median

	if len(values) >= domain.MinQuartileSamples {
		q25 := quantile(sorted, 0.25)
		q75 := quantile(sorted, 0.75)
		summary.Q25 = &q25
		summary.Q75 = &q75
	}

	return summary
}

// mean returns the arithmetic mean of a non-empty sample.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the sample standard deviation, or 0 for samples of fewer
// than two values.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// quantile returns the p-quantile of an ascending sample using linear
// interpolation between closest ranks. The sample must be non-empty.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
