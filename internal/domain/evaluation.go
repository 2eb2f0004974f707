// Package domain provides core types and business logic for offline evaluation
// of summarization chains. It defines dataset examples, chain identifiers,
// score records, comparison verdicts, and aggregate report shapes used
// throughout the system. The types are designed to support reproducible,
// auditable evaluation runs whose record shapes are a contract shared with
// persistence and dashboards.
package domain

import (
	"errors"
	"fmt"
)

// Common evaluation errors returned by domain operations.
var (
	// ErrInvalidExample indicates that a dataset example contains invalid data.
	ErrInvalidExample = errors.New("invalid example")

	// ErrUnknownChain indicates that a chain name does not resolve to a
	// supported chain identifier.
	ErrUnknownChain = errors.New("unknown chain")
)

// ChainID identifies one summarization strategy: a prompt template plus a
// parsing policy. The set of supported chains is closed; unknown names are
// rejected at call entry rather than dispatched by string lookup.
type ChainID string

const (
	// ChainBaseline is the v0 chain: a minimal one-sentence plain-text
	// summary prompt with no output format contract.
	ChainBaseline ChainID = "v0"

	// ChainStructured is the v1 chain: a structured prompt demanding a JSON
	// object with summary and sentiment fields.
	ChainStructured ChainID = "v1"
)

// String returns the chain name as used on the CLI and in persisted records.
func (c ChainID) String() string { return string(c) }

// IsValid reports whether the chain identifier is one of the supported chains.
func (c ChainID) IsValid() bool {
	switch c {
	case ChainBaseline, ChainStructured:
		return true
	default:
		return false
	}
}

// ResolveChainID maps a chain name to its identifier, resolving the closed
// set of supported chains once at call entry. Returns ErrUnknownChain for
// any name outside the supported set.
func ResolveChainID(name string) (ChainID, error) {
	id := ChainID(name)
	if !id.IsValid() {
		return "", fmt.Errorf("%w: %q (supported: %s, %s)",
			ErrUnknownChain, name, ChainBaseline, ChainStructured)
	}
	return id, nil
}

// Example is one dataset row: the text to summarize and the reference
// summary it is scored against. Examples are immutable once loaded and are
// discarded after producing a result record.
type Example struct {
	// Input is the source text handed to the chain under evaluation.
	Input string `json:"input" validate:"required,min=1"`

	// Reference is the expected summary used for rule-based scoring and,
	// optionally, as context for the judge.
	Reference string `json:"reference" validate:"required,min=1"`
}

// Validate checks if the example meets all dataset contract requirements.
// Returns nil if valid, or a validation error describing the first
// constraint violation.
func (e *Example) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExample, err)
	}
	return nil
}
