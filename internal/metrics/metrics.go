// Package metrics implements the rule-based evaluation checks for generation
// outputs: schema compliance, summary length, and reference faithfulness.
// Every function is pure and deterministic — no collaborator calls, no
// randomness, no side effects — so rule scores are repeatable for any
// (output, reference) pair and safe to recompute at any time.
package metrics

import (
	"encoding/json"
	"regexp"
	"strings"
)

// DefaultMaxWords is the word limit applied to summaries when the caller
// does not override it.
const DefaultMaxWords = 20

// wordPattern tokenizes text into contiguous alphanumeric/underscore runs,
// matching word-boundary regex semantics. Shared by the length and
// faithfulness checks so both agree on what counts as a token.
var wordPattern = regexp.MustCompile(`\w+`)

// structuredOutput is the expected shape of a structured chain output.
// Raw messages distinguish "key absent" from "key present with any value".
type structuredOutput struct {
	Summary   json.RawMessage `json:"summary"`
	Sentiment json.RawMessage `json:"sentiment"`
}

// SchemaOK reports whether the output is a valid JSON object carrying both
// a summary and a sentiment key. Any parse failure or missing key yields
// false; the check never panics on arbitrary input.
func SchemaOK(output string) bool {
	trimmed := strings.TrimSpace(output)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return false
	}

	_, hasSummary := fields["summary"]
	_, hasSentiment := fields["sentiment"]
	return hasSummary && hasSentiment
}

// SummaryText extracts the text to score from a generation output. If the
// output parses as a JSON object with a string summary field, that field's
// text is returned; otherwise the whole output is treated as plain text.
// Shared by the length and faithfulness checks and by judge prompt
// construction so all consumers score the same text.
func SummaryText(output string) string {
	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "{") {
		return output
	}

	var parsed structuredOutput
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return output
	}

	var summary string
	if err := json.Unmarshal(parsed.Summary, &summary); err != nil {
		return output
	}
	return summary
}

// LengthOK reports whether the extracted summary contains at most maxWords
// tokens. Monotonic in maxWords: a summary accepted at k is accepted at k+1.
func LengthOK(output string, maxWords int) bool {
	words := wordPattern.FindAllString(SummaryText(output), -1)
	return len(words) <= maxWords
}

// Faithfulness returns the fraction of unique reference tokens that appear
// in the extracted output text, in [0,1]. Comparison is case-insensitive
// over unique tokens. An empty reference token set yields 0.0 exactly.
//
// The score is recall-style and one-directional: verbose outputs carrying
// the full reference plus padding still score 1.0. It is a deliberately
// simple baseline, not a similarity metric.
func Faithfulness(output, reference string) float64 {
	refTokens := tokenSet(reference)
	if len(refTokens) == 0 {
		return 0.0
	}

	outTokens := tokenSet(SummaryText(output))

	overlap := 0
	for token := range refTokens {
		if _, ok := outTokens[token]; ok {
			overlap++
		}
	}

	return float64(overlap) / float64(len(refTokens))
}

// tokenSet lower-cases text and collects its unique word tokens.
func tokenSet(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
