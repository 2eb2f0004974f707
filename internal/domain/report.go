// Package domain report types define the immutable dataset-level snapshot
// produced once per evaluation run. Aggregation is deterministic and
// independent of computation order; degenerate inputs (empty runs, tiny
// samples) are represented by explicit zero values and omitted quantiles
// rather than errors.
package domain

// MinQuartileSamples is the smallest sample size for which quartiles are
// reported. Below this, only the median is reported to avoid misleading
// quantile estimates on tiny samples.
const MinQuartileSamples = 4

// NumericSummary holds descriptive statistics for one numeric field across
// all records of a run. Quartiles are present only when the sample size is
// at least MinQuartileSamples; Median is present whenever Count > 0.
type NumericSummary struct {
	// Count is the number of samples aggregated.
	Count int `json:"count" validate:"min=0"`

	// Mean is the arithmetic mean. Zero when Count is zero.
	Mean float64 `json:"mean"`

	// StdDev is the sample standard deviation. Zero when Count < 2.
	StdDev float64 `json:"std_dev"`

	// Median is the 50th percentile. Nil when Count is zero.
	Median *float64 `json:"median,omitempty"`

	// Q25 and Q75 are the quartiles, reported only when
	// Count >= MinQuartileSamples.
	Q25 *float64 `json:"q25,omitempty"`
	Q75 *float64 `json:"q75,omitempty"`
}

// JudgeAggregate holds per-dimension summaries of judge scores across a run.
type JudgeAggregate struct {
	// Overall summarizes the combined judge score per example.
	Overall NumericSummary `json:"overall"`

	// Per-dimension summaries of the four 1-5 ratings.
	Accuracy     NumericSummary `json:"accuracy"`
	Clarity      NumericSummary `json:"clarity"`
	Completeness NumericSummary `json:"completeness"`
	Conciseness  NumericSummary `json:"conciseness"`

	// FallbackRate is the fraction of judge records produced by the parse
	// failure fallback. A high rate signals many unparseable judge
	// responses without naming each one.
	FallbackRate float64 `json:"fallback_rate" validate:"min=0,max=1"`
}

// AggregateReport is the summary-statistics snapshot for one evaluation run.
// Created once after all examples are processed, never mutated afterwards,
// and persisted by the I/O layer outside the core.
type AggregateReport struct {
	// N is the number of examples evaluated. Zero identifies a "no data"
	// report from an empty dataset.
	N int `json:"n" validate:"min=0"`

	// Chain identifies which chain variant the run evaluated.
	Chain ChainID `json:"chain" validate:"required"`

	// SchemaRate is the fraction of outputs passing the schema check.
	SchemaRate float64 `json:"schema_rate" validate:"min=0,max=1"`

	// LengthRate is the fraction of outputs within the word limit.
	LengthRate float64 `json:"length_rate" validate:"min=0,max=1"`

	// Faithfulness summarizes the per-example overlap scores. As the central
	// metric of the report it carries spread statistics, not just a mean.
	Faithfulness NumericSummary `json:"faithfulness"`

	// Judge summarizes judge scores. Nil when judging was disabled.
	Judge *JudgeAggregate `json:"judge,omitempty"`
}

// Validate checks if the aggregate report meets all contract requirements.
func (r *AggregateReport) Validate() error { return validate.Struct(r) }

// HasData reports whether the report summarizes at least one example.
func (r *AggregateReport) HasData() bool { return r.N > 0 }
