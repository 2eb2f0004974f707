//nolint:testpackage // Tests exercise the unexported winner and tally helpers.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/domain"
)

// abClient routes prompts by recognizable fragments: the baseline chain's
// summarization prompt, the structured chain's, and the pairwise judge
// prompt. Each role gets its own canned answer.
type abClient struct {
	baselineOut   string
	structuredOut string
	judgeOut      string
}

func (c *abClient) Generate(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "expert evaluator comparing"):
		return c.judgeOut, nil
	case strings.Contains(prompt, "precise assistant"):
		return c.structuredOut, nil
	default:
		return c.baselineOut, nil
	}
}

type errClient struct{ err error }

func (c errClient) Generate(context.Context, string) (string, error) { return "", c.err }

func testChains(t *testing.T) (*chains.Chain, *chains.Chain) {
	t.Helper()
	chainA, err := chains.ForID(domain.ChainBaseline)
	require.NoError(t, err)
	chainB, err := chains.ForID(domain.ChainStructured)
	require.NoError(t, err)
	return chainA, chainB
}

func TestRuleWinner(t *testing.T) {
	assert.Equal(t, domain.WinnerChainA, ruleWinner(0.8, 0.5))
	assert.Equal(t, domain.WinnerChainB, ruleWinner(0.5, 0.8))
	assert.Equal(t, domain.WinnerChainA, ruleWinner(0.5, 0.5),
		"ties resolve to chain A")
	assert.Equal(t, domain.WinnerChainA, ruleWinner(0, 0))
}

func TestComparatorCompare(t *testing.T) {
	examples := []domain.Example{
		{Input: "the cat sat on the mat", Reference: "cat sat on mat"},
		{Input: "dogs bark at night", Reference: "dogs bark loudly"},
		{Input: "rain fell all day", Reference: "rain fell all day"},
	}

	t.Run("faithful chain sweeps the rule comparison", func(t *testing.T) {
		// Chain A echoes enough of every reference to score full recall;
		// chain B returns nothing.
		client := &abClient{
			baselineOut:   "cat sat on mat dogs bark loudly rain fell all day",
			structuredOut: "",
		}
		cmp := New(client, nil, nil)
		chainA, chainB := testChains(t)

		results, summary, err := cmp.Compare(context.Background(), chainA, chainB, examples, Options{})
		require.NoError(t, err)
		require.Len(t, results, 3)

		for i, r := range results {
			assert.Equal(t, i, r.Index)
			assert.InDelta(t, 1.0, r.FaithfulnessA, 1e-9)
			assert.InDelta(t, 0.0, r.FaithfulnessB, 1e-9)
			assert.Equal(t, domain.WinnerChainA, r.RuleWinner)
		}

		assert.Equal(t, 3, summary.TotalPairs)
		assert.Equal(t, 3, summary.Rule.AWins)
		assert.Equal(t, 0, summary.Rule.BWins)
		assert.InDelta(t, 1.0, summary.Rule.AWinRate, 0, "win rate is exact, not approximate")
		assert.Nil(t, summary.Judge, "judge tally absent when judging is disabled")
		assert.Nil(t, summary.AgreementRate)
	})

	t.Run("positional winner maps back through the swap", func(t *testing.T) {
		// The judge always declares position A the winner, so the chain-level
		// winner is determined entirely by whether the example was swapped.
		client := &abClient{
			baselineOut:   "cat sat on mat",
			structuredOut: "dogs bark",
			judgeOut:      `{"winner": "A", "confidence": 4, "reasoning": "clearer"}`,
		}
		cmp := New(client, nil, nil)
		chainA, chainB := testChains(t)

		results, summary, err := cmp.Compare(context.Background(), chainA, chainB, examples,
			Options{UseJudge: true, Rand: rand.New(rand.NewSource(7))})
		require.NoError(t, err)

		for _, r := range results {
			if r.Swapped {
				assert.Equal(t, domain.WinnerChainB, r.JudgeWinner,
					"first position held chain B on swapped examples")
			} else {
				assert.Equal(t, domain.WinnerChainA, r.JudgeWinner)
			}
			assert.Equal(t, 4, r.Confidence)
			assert.Equal(t, "clearer", r.Reasoning)
		}

		require.NotNil(t, summary.Judge)
		require.NotNil(t, summary.AgreementRate)
		assert.GreaterOrEqual(t, *summary.AgreementRate, 0.0)
		assert.LessOrEqual(t, *summary.AgreementRate, 1.0)
	})

	t.Run("identical seeds reproduce the swap sequence", func(t *testing.T) {
		client := &abClient{
			baselineOut:   "cat sat on mat",
			structuredOut: "dogs bark",
			judgeOut:      `{"winner": "B", "confidence": 2, "reasoning": "more complete"}`,
		}
		chainA, chainB := testChains(t)

		run := func() []domain.ComparisonResult {
			cmp := New(client, nil, nil)
			results, _, err := cmp.Compare(context.Background(), chainA, chainB, examples,
				Options{UseJudge: true, Rand: rand.New(rand.NewSource(42))})
			require.NoError(t, err)
			return results
		}

		first, second := run(), run()
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Swapped, second[i].Swapped)
			assert.Equal(t, first[i].JudgeWinner, second[i].JudgeWinner)
		}
	})

	t.Run("unparseable pairwise response falls back to position A", func(t *testing.T) {
		client := &abClient{
			baselineOut:   "cat sat on mat",
			structuredOut: "dogs bark",
			judgeOut:      "honestly both seem fine to me",
		}
		cmp := New(client, nil, nil)
		chainA, chainB := testChains(t)

		results, _, err := cmp.Compare(context.Background(), chainA, chainB, examples[:1],
			Options{UseJudge: true, Rand: rand.New(rand.NewSource(1))})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.MinConfidence, results[0].Confidence)
		assert.NotEmpty(t, results[0].JudgeWinner, "fallback still yields a winner")
	})

	t.Run("generation failure names the example and side", func(t *testing.T) {
		cmp := New(errClient{err: errors.New("connection refused")}, nil, nil)
		chainA, chainB := testChains(t)

		results, summary, err := cmp.Compare(context.Background(), chainA, chainB, examples, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "example 0")
		assert.Contains(t, err.Error(), "chain_a")
		assert.Nil(t, results)
		assert.Nil(t, summary)
	})

	t.Run("empty dataset yields an empty summary", func(t *testing.T) {
		cmp := New(&abClient{}, nil, nil)
		chainA, chainB := testChains(t)

		results, summary, err := cmp.Compare(context.Background(), chainA, chainB, nil, Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 0, summary.TotalPairs)
	})
}

func TestBuildSummary(t *testing.T) {
	t.Run("agreement counts matching winners only", func(t *testing.T) {
		results := []domain.ComparisonResult{
			{RuleWinner: domain.WinnerChainA, JudgeWinner: domain.WinnerChainA},
			{RuleWinner: domain.WinnerChainA, JudgeWinner: domain.WinnerChainB},
			{RuleWinner: domain.WinnerChainB, JudgeWinner: domain.WinnerChainB},
			{RuleWinner: domain.WinnerChainB, JudgeWinner: domain.WinnerChainA},
		}

		summary := buildSummary(results, true)
		assert.Equal(t, 4, summary.TotalPairs)
		assert.Equal(t, 2, summary.Rule.AWins)
		assert.Equal(t, 2, summary.Rule.BWins)
		require.NotNil(t, summary.Judge)
		assert.Equal(t, 2, summary.Judge.AWins)
		require.NotNil(t, summary.AgreementRate)
		assert.InDelta(t, 0.5, *summary.AgreementRate, 1e-9)
	})

	t.Run("win rates are complementary", func(t *testing.T) {
		results := []domain.ComparisonResult{
			{RuleWinner: domain.WinnerChainA},
			{RuleWinner: domain.WinnerChainB},
			{RuleWinner: domain.WinnerChainB},
		}
		summary := buildSummary(results, false)
		assert.InDelta(t, 1.0/3.0, summary.Rule.AWinRate, 1e-9)
		assert.Equal(t, summary.TotalPairs, summary.Rule.AWins+summary.Rule.BWins)
	})
}

func TestOptionsRng(t *testing.T) {
	injected := rand.New(rand.NewSource(99))
	assert.Same(t, injected, Options{Rand: injected}.rng())
	require.NotNil(t, Options{}.rng(), "nil source resolves to a usable generator")
}

func ExampleComparator_Compare() {
	client := &abClient{
		baselineOut:   "rain fell all day",
		structuredOut: "",
	}
	cmp := New(client, nil, nil)
	chainA, _ := chains.ForID(domain.ChainBaseline)
	chainB, _ := chains.ForID(domain.ChainStructured)

	_, summary, _ := cmp.Compare(context.Background(), chainA, chainB,
		[]domain.Example{{Input: "rain fell all day", Reference: "rain fell all day"}},
		Options{})
	fmt.Printf("A win rate: %.1f\n", summary.Rule.AWinRate)
	// Output: A win rate: 1.0
}
