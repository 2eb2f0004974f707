// Package domain scoring types capture the two independent assessments made
// for every generated summary: deterministic rule-based checks and an
// LLM-judge quality rating. Judge records are a tagged result — either a
// strictly parsed response or the designated fallback — so downstream
// aggregation arithmetic is always well-defined.
package domain

import "errors"

// Score-specific errors returned by scoring operations.
var (
	// ErrInvalidJudgeScore indicates that a judge score contains invalid data.
	ErrInvalidJudgeScore = errors.New("invalid judge score")

	// ErrInvalidJudgment indicates that a pairwise judgment contains invalid data.
	ErrInvalidJudgment = errors.New("invalid pairwise judgment")
)

const (
	// MinDimensionScore is the lowest rating on each judge dimension.
	MinDimensionScore = 1

	// MaxDimensionScore is the highest rating on each judge dimension.
	MaxDimensionScore = 5

	// DefaultDimensionScore is the neutral rating used when a judge response
	// cannot be parsed or omits a dimension.
	DefaultDimensionScore = 3

	// DefaultOverallScore is the neutral overall score used when no numeric
	// score can be derived from a judge response.
	DefaultOverallScore = 3.0

	// MinConfidence is the lowest pairwise judge confidence, also used as
	// the fallback confidence when a judgment cannot be parsed.
	MinConfidence = 1

	// MaxConfidence is the highest pairwise judge confidence.
	MaxConfidence = 5

	// FallbackReasoning is the reasoning text recorded on fallback records.
	FallbackReasoning = "parse failure"
)

// RuleScore holds the deterministic rule-based checks for one generation
// output. Derived purely and repeatably from (output, reference); no side
// effects, no randomness.
type RuleScore struct {
	// SchemaOK reports whether the output is a JSON object carrying both
	// the summary and sentiment fields.
	SchemaOK bool `json:"schema_ok"`

	// LengthOK reports whether the extracted summary respects the word limit.
	LengthOK bool `json:"length_ok"`

	// Faithfulness is the recall-style token overlap of the output against
	// the reference, in [0,1].
	Faithfulness float64 `json:"faithfulness" validate:"min=0,max=1"`
}

// Validate checks if the rule score meets all contract requirements.
func (r *RuleScore) Validate() error { return validate.Struct(r) }

// JudgeScore is the LLM judge's quality rating for one output: four 1-5
// dimensions, an overall score, and free-text reasoning. Fallback records
// carry neutral scores plus the raw unparsed response for diagnostics.
type JudgeScore struct {
	// Accuracy rates how well the summary captures key information (1-5).
	Accuracy int `json:"accuracy" validate:"min=1,max=5"`

	// Clarity rates how clear and well written the summary is (1-5).
	Clarity int `json:"clarity" validate:"min=1,max=5"`

	// Completeness rates coverage of the important points (1-5).
	Completeness int `json:"completeness" validate:"min=1,max=5"`

	// Conciseness rates appropriate brevity (1-5).
	Conciseness int `json:"conciseness" validate:"min=1,max=5"`

	// Overall is the judge's combined score. Derived via the three-tier
	// extraction rule when the response omits an explicit overall value.
	Overall float64 `json:"overall" validate:"min=1,max=5"`

	// Reasoning is the judge's free-text explanation for the scores.
	Reasoning string `json:"reasoning"`

	// RawResponse retains the unparsed judge output on fallback records so
	// parse failures can be diagnosed post hoc. Empty on parsed records.
	RawResponse string `json:"raw_response,omitempty"`

	// Fallback marks records produced by the parse-failure fallback rather
	// than a successfully parsed judge response.
	Fallback bool `json:"fallback,omitempty"`
}

// Validate checks if the judge score meets all contract requirements.
func (j *JudgeScore) Validate() error {
	if err := validate.Struct(j); err != nil {
		return errors.Join(ErrInvalidJudgeScore, err)
	}
	return nil
}

// FallbackJudgeScore returns the fixed-default judge record used when a
// judge response cannot be parsed: all dimensions neutral, overall 3.0, and
// the raw response retained. This guarantees a JudgeScore is producible for
// any collaborator output.
func FallbackJudgeScore(rawResponse string) JudgeScore {
	return JudgeScore{
		Accuracy:     DefaultDimensionScore,
		Clarity:      DefaultDimensionScore,
		Completeness: DefaultDimensionScore,
		Conciseness:  DefaultDimensionScore,
		Overall:      DefaultOverallScore,
		Reasoning:    FallbackReasoning,
		RawResponse:  rawResponse,
		Fallback:     true,
	}
}

// Position labels which of the two presented outputs a pairwise judge
// selected. The judge only ever sees positional labels, never chain names;
// mapping positions back to chains is the comparator's responsibility.
type Position string

const (
	// PositionFirst is the output presented as "A".
	PositionFirst Position = "A"

	// PositionSecond is the output presented as "B".
	PositionSecond Position = "B"
)

// IsValid reports whether the position is one of the two presented slots.
func (p Position) IsValid() bool { return p == PositionFirst || p == PositionSecond }

// PairwiseJudgment is the judge's verdict when comparing two outputs for the
// same input: a positional winner, a 1-5 confidence, and reasoning.
type PairwiseJudgment struct {
	// Winner is the position the judge preferred.
	Winner Position `json:"winner" validate:"required,oneof=A B"`

	// Confidence indicates how sure the judge is (1=unsure, 5=very sure).
	Confidence int `json:"confidence" validate:"min=1,max=5"`

	// Reasoning explains why the winning output was preferred.
	Reasoning string `json:"reasoning"`

	// RawResponse retains the unparsed judge output on fallback records.
	RawResponse string `json:"raw_response,omitempty"`

	// Fallback marks judgments produced by the parse-failure fallback.
	Fallback bool `json:"fallback,omitempty"`
}

// Validate checks if the pairwise judgment meets all contract requirements.
func (p *PairwiseJudgment) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Join(ErrInvalidJudgment, err)
	}
	return nil
}

// FallbackPairwiseJudgment returns the fixed-default judgment used when a
// pairwise response cannot be parsed: first position wins at minimum
// confidence, raw response retained for diagnostics.
func FallbackPairwiseJudgment(rawResponse string) PairwiseJudgment {
	return PairwiseJudgment{
		Winner:      PositionFirst,
		Confidence:  MinConfidence,
		Reasoning:   FallbackReasoning,
		RawResponse: rawResponse,
		Fallback:    true,
	}
}
