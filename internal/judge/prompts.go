package judge

import (
	"fmt"
	"strings"
)

// qualityPrompt renders the single-output rating prompt. Each dimension is
// defined independently so the judge scores them separately, and the
// response contract demands one JSON object containing all five numeric
// fields plus reasoning.
func qualityPrompt(input, output, reference string) string {
	var b strings.Builder

	b.WriteString("You are an expert evaluator of text summaries. Rate this summary on a scale of 1-5 for each dimension.\n\n")
	fmt.Fprintf(&b, "Input text: %s\n\n", input)
	fmt.Fprintf(&b, "Summary to evaluate: %s\n\n", output)
	if reference != "" {
		fmt.Fprintf(&b, "Reference summary: %s\n\n", reference)
	}

	b.WriteString(`Rate on these dimensions (1=Poor, 2=Below Average, 3=Average, 4=Good, 5=Excellent):

- **Accuracy**: How well does it capture the key information from the input?
- **Clarity**: Is it well-written, clear, and easy to understand?
- **Completeness**: Does it cover the important points without missing key details?
- **Conciseness**: Is it appropriately brief without being too short or too long?

Return ONLY this JSON format:
{"accuracy": int, "clarity": int, "completeness": int, "conciseness": int, "overall": int, "reasoning": "brief explanation"}`)

	return b.String()
}

// pairwisePrompt renders the A/B comparison prompt. The two outputs are
// labeled only by position; chain identities never reach the judge.
func pairwisePrompt(input, outputA, outputB string) string {
	var b strings.Builder

	b.WriteString("You are an expert evaluator comparing two summaries of the same text. Determine which summary is better overall.\n\n")
	fmt.Fprintf(&b, "Input text: %s\n\n", input)
	fmt.Fprintf(&b, "Summary A: %s\n\n", outputA)
	fmt.Fprintf(&b, "Summary B: %s\n\n", outputB)

	b.WriteString(`Consider:
- Accuracy: Which better captures key information?
- Clarity: Which is clearer and better written?
- Completeness: Which covers important points better?
- Conciseness: Which is more appropriately brief?

Return ONLY this JSON format:
{"winner": "A" or "B", "confidence": int (1-5), "reasoning": "brief explanation of why this summary is better"}`)

	return b.String()
}
