package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ahrav/go-abeval/internal/domain"
)

// Parse errors. These never escape the judge — they select the fallback
// path — but carry enough detail for tests and logs.
var (
	// ErrMalformedResponse indicates the response is not a JSON object even
	// after transport-level repair.
	ErrMalformedResponse = errors.New("malformed judge response")

	// ErrScoreOutOfRange indicates a numeric field fell outside [1,5].
	ErrScoreOutOfRange = errors.New("judge score out of range")

	// ErrInvalidWinner indicates the pairwise winner label is neither A nor B.
	ErrInvalidWinner = errors.New("invalid winner label")
)

// QualityResponse is the wire shape of a single-output judgment. Pointer
// fields distinguish an omitted dimension from an explicit value, which the
// three-tier overall extraction rule depends on.
type QualityResponse struct {
	Accuracy     *float64 `json:"accuracy"`
	Clarity      *float64 `json:"clarity"`
	Completeness *float64 `json:"completeness"`
	Conciseness  *float64 `json:"conciseness"`
	Overall      *float64 `json:"overall"`
	Reasoning    string   `json:"reasoning"`
}

// ExtractOverall derives a single numeric score from a quality response
// using the three-tier fallback rule: the explicit overall value when
// present, otherwise the mean of whichever dimensions are present,
// otherwise the neutral default. A numeric overall is therefore always
// derivable, even from an empty response.
func ExtractOverall(r QualityResponse) float64 {
	if r.Overall != nil {
		return *r.Overall
	}

	var sum float64
	var count int
	for _, dim := range []*float64{r.Accuracy, r.Clarity, r.Completeness, r.Conciseness} {
		if dim != nil {
			sum += *dim
			count++
		}
	}
	if count > 0 {
		return sum / float64(count)
	}

	return domain.DefaultOverallScore
}

// Score converts a parsed response into the domain record, defaulting
// omitted dimensions to the neutral rating.
func (r QualityResponse) Score() domain.JudgeScore {
	return domain.JudgeScore{
		Accuracy:     dimensionOrDefault(r.Accuracy),
		Clarity:      dimensionOrDefault(r.Clarity),
		Completeness: dimensionOrDefault(r.Completeness),
		Conciseness:  dimensionOrDefault(r.Conciseness),
		Overall:      ExtractOverall(r),
		Reasoning:    r.Reasoning,
	}
}

// dimensionOrDefault rounds a present dimension to its integer rating, or
// returns the neutral default for an omitted one.
func dimensionOrDefault(v *float64) int {
	if v == nil {
		return domain.DefaultDimensionScore
	}
	return int(math.Round(*v))
}

// parseQualityResponse strictly decodes a quality judgment after one-shot
// repair. Any decode failure or out-of-range value is an error; the caller
// maps errors to the fallback record.
func parseQualityResponse(raw string) (QualityResponse, error) {
	repaired := repairCommonJSONIssues(raw)

	var response QualityResponse
	if err := json.Unmarshal([]byte(repaired), &response); err != nil {
		return QualityResponse{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	for _, dim := range []*float64{
		response.Accuracy, response.Clarity, response.Completeness,
		response.Conciseness, response.Overall,
	} {
		if err := checkRange(dim); err != nil {
			return QualityResponse{}, err
		}
	}

	return response, nil
}

// pairwiseResponse is the wire shape of an A/B judgment.
type pairwiseResponse struct {
	Winner     string   `json:"winner"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// parsePairwiseResponse strictly decodes a pairwise judgment after one-shot
// repair. The winner label must normalize to exactly A or B; an omitted
// confidence defaults to the minimum.
func parsePairwiseResponse(raw string) (domain.PairwiseJudgment, error) {
	repaired := repairCommonJSONIssues(raw)

	var response pairwiseResponse
	if err := json.Unmarshal([]byte(repaired), &response); err != nil {
		return domain.PairwiseJudgment{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	winner := domain.Position(strings.ToUpper(strings.TrimSpace(response.Winner)))
	if !winner.IsValid() {
		return domain.PairwiseJudgment{}, fmt.Errorf("%w: %q", ErrInvalidWinner, response.Winner)
	}

	confidence := domain.MinConfidence
	if response.Confidence != nil {
		if err := checkRange(response.Confidence); err != nil {
			return domain.PairwiseJudgment{}, err
		}
		confidence = int(math.Round(*response.Confidence))
	}

	return domain.PairwiseJudgment{
		Winner:     winner,
		Confidence: confidence,
		Reasoning:  response.Reasoning,
	}, nil
}

// checkRange validates that a present numeric field lies within the 1-5
// rating scale.
func checkRange(v *float64) error {
	if v == nil {
		return nil
	}
	if *v < domain.MinDimensionScore || *v > domain.MaxDimensionScore {
		return fmt.Errorf("%w: %g", ErrScoreOutOfRange, *v)
	}
	return nil
}

// unquotedKeyPattern matches bare property names, which are invalid JSON
// but common in LLM output.
var unquotedKeyPattern = regexp.MustCompile(`(\{|,)\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)

// repairCommonJSONIssues applies one conservative repair pass for typical
// LLM formatting problems before strict parsing: markdown code fences,
// trailing commas, unquoted keys, and single-quote payloads. Anything the
// repair cannot fix falls through to the fallback record — malformed
// payloads are never partially recovered.
func repairCommonJSONIssues(raw string) string {
	repaired := strings.TrimSpace(raw)

	// Markdown code fences that models often wrap around JSON.
	repaired = strings.TrimPrefix(repaired, "```json")
	repaired = strings.TrimPrefix(repaired, "```")
	repaired = strings.TrimSuffix(repaired, "```")

	// Trailing commas before a closing brace.
	repaired = strings.ReplaceAll(repaired, ",\n}", "\n}")
	repaired = strings.ReplaceAll(repaired, ",\r\n}", "\r\n}")
	repaired = strings.ReplaceAll(repaired, ", }", " }")
	repaired = strings.ReplaceAll(repaired, ",}", "}")

	repaired = unquotedKeyPattern.ReplaceAllString(repaired, `$1"$2":`)

	// Single-quoted payloads, only when no double quotes exist to conflict.
	if !strings.Contains(repaired, `"`) && strings.Contains(repaired, `'`) {
		repaired = strings.ReplaceAll(repaired, `'`, `"`)
	}

	return strings.TrimSpace(repaired)
}
