package domain

import "errors"

// Result-specific errors.
var (
	// ErrInvalidResult indicates that a per-example result record is malformed.
	ErrInvalidResult = errors.New("invalid result record")
)

// EvalResult is the merged per-example record produced by a dataset
// evaluation run: the generation output plus its rule-based checks and,
// when judging is enabled, the judge's quality rating. Records form an
// ordered sequence whose order matches the dataset as loaded; that ordering
// is relied on by downstream consumers and must not be disturbed.
type EvalResult struct {
	// Index is the zero-based position of the example in the dataset.
	Index int `json:"index" validate:"min=0"`

	// Chain identifies which chain variant produced the output.
	Chain ChainID `json:"chain" validate:"required"`

	// Output is the raw generation output being scored. May be free text or
	// a serialized JSON payload depending on the chain variant.
	Output string `json:"output"`

	// RuleScore carries the deterministic checks, flattened into the record.
	RuleScore

	// Judge carries the LLM judge rating. Nil when judging was disabled for
	// the run; never nil otherwise (the fallback guarantees producibility).
	Judge *JudgeScore `json:"judge,omitempty"`
}

// Validate checks if the result record meets all contract requirements.
func (r *EvalResult) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Join(ErrInvalidResult, err)
	}
	if r.Judge != nil {
		return r.Judge.Validate()
	}
	return nil
}

// Winner identifies which chain a comparison method selected for one example.
type Winner string

const (
	// WinnerChainA is the first chain passed to the comparator. Rule-based
	// ties deliberately resolve to this value.
	WinnerChainA Winner = "chain_a"

	// WinnerChainB is the second chain passed to the comparator.
	WinnerChainB Winner = "chain_b"
)

// ComparisonResult is the per-example record of an A/B run: both outputs,
// both faithfulness scores, and the winner selected by each method.
type ComparisonResult struct {
	// Index is the zero-based position of the example in the dataset.
	Index int `json:"index" validate:"min=0"`

	// Input is the example input both chains summarized.
	Input string `json:"input"`

	// OutputA and OutputB are the raw outputs of the two chains. Each chain
	// is invoked independently; neither sees the other's output.
	OutputA string `json:"output_a"`
	OutputB string `json:"output_b"`

	// FaithfulnessA and FaithfulnessB are the rule-based overlap scores of
	// each output against the shared reference.
	FaithfulnessA float64 `json:"faithfulness_a" validate:"min=0,max=1"`
	FaithfulnessB float64 `json:"faithfulness_b" validate:"min=0,max=1"`

	// RuleWinner is the chain with strictly higher faithfulness; ties
	// resolve to chain A.
	RuleWinner Winner `json:"rule_winner" validate:"required,oneof=chain_a chain_b"`

	// JudgeWinner is the judge's pick after undoing the positional
	// permutation. Empty when judging was disabled.
	JudgeWinner Winner `json:"judge_winner,omitempty" validate:"omitempty,oneof=chain_a chain_b"`

	// Confidence is the judge's 1-5 confidence in its pick. Zero when
	// judging was disabled.
	Confidence int `json:"confidence,omitempty" validate:"omitempty,min=1,max=5"`

	// Reasoning is the judge's explanation for its pick.
	Reasoning string `json:"reasoning,omitempty"`

	// Swapped records whether chain B was presented to the judge in the
	// first position for this example. Retained for de-biasing audits.
	Swapped bool `json:"swapped,omitempty"`
}

// Validate checks if the comparison record meets all contract requirements.
func (c *ComparisonResult) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Join(ErrInvalidResult, err)
	}
	return nil
}

// WinTally counts per-method wins across an A/B run.
type WinTally struct {
	// AWins and BWins count examples where the method selected each chain.
	AWins int `json:"a_wins" validate:"min=0"`
	BWins int `json:"b_wins" validate:"min=0"`

	// AWinRate is AWins over the total number of pairs, in [0,1].
	AWinRate float64 `json:"a_win_rate" validate:"min=0,max=1"`
}

// ComparisonSummary is the dataset-level summary of an A/B run: win tallies
// per scoring method and the agreement rate between them. The agreement rate
// is the key signal for whether the cheap rule-based metric is a usable
// proxy for the expensive judge.
type ComparisonSummary struct {
	// TotalPairs is the number of examples compared.
	TotalPairs int `json:"total_pairs" validate:"min=0"`

	// Rule tallies wins under the rule-based faithfulness comparison.
	Rule WinTally `json:"rule"`

	// Judge tallies wins under the pairwise LLM judge. Nil when judging was
	// disabled for the run.
	Judge *WinTally `json:"judge,omitempty"`

	// AgreementRate is the fraction of examples where the rule-based winner
	// equals the judge-based winner, in [0,1]. Nil when judging was disabled.
	AgreementRate *float64 `json:"agreement_rate,omitempty"`
}

// Validate checks if the comparison summary meets all contract requirements.
func (s *ComparisonSummary) Validate() error { return validate.Struct(s) }
