//nolint:testpackage // Tests exercise the unexported option defaults.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/domain"
)

// scriptedClient answers summarization prompts from a fixed queue and judge
// prompts with a canned rating, mirroring the two collaborator roles the
// evaluator wires to a single generation client.
type scriptedClient struct {
	outputs       []string
	judgeResponse string
	calls         int
}

func (c *scriptedClient) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "expert evaluator") {
		return c.judgeResponse, nil
	}
	if c.calls >= len(c.outputs) {
		return "", fmt.Errorf("unexpected generation call %d", c.calls)
	}
	out := c.outputs[c.calls]
	c.calls++
	return out, nil
}

// failAfterClient succeeds for the first n generations, then fails.
type failAfterClient struct {
	n     int
	calls int
}

func (c *failAfterClient) Generate(context.Context, string) (string, error) {
	if c.calls >= c.n {
		return "", errors.New("model unavailable")
	}
	c.calls++
	return "a summary", nil
}

func mustChain(t *testing.T, id domain.ChainID) *chains.Chain {
	t.Helper()
	chain, err := chains.ForID(id)
	require.NoError(t, err)
	return chain
}

func TestEvaluatorEvaluate(t *testing.T) {
	examples := []domain.Example{
		{Input: "the cat sat on the mat", Reference: "cat sat on mat"},
		{Input: "dogs bark at night", Reference: "dogs bark at night"},
	}

	t.Run("preserves dataset order and scores every example", func(t *testing.T) {
		client := &scriptedClient{outputs: []string{
			"cat sat on mat",
			"something unrelated entirely",
		}}
		ev := New(client, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline), examples, Options{})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, 0, results[0].Index)
		assert.Equal(t, 1, results[1].Index)
		assert.Equal(t, "cat sat on mat", results[0].Output)
		assert.Equal(t, "something unrelated entirely", results[1].Output)
		assert.InDelta(t, 1.0, results[0].Faithfulness, 1e-9,
			"output covering every reference token scores full faithfulness")
		assert.InDelta(t, 0.0, results[1].Faithfulness, 1e-9)

		require.NotNil(t, rep)
		assert.Equal(t, 2, rep.N)
		assert.Equal(t, domain.ChainBaseline, rep.Chain)
		assert.InDelta(t, 0.5, rep.Faithfulness.Mean, 1e-9)
	})

	t.Run("judge disabled leaves judge fields empty", func(t *testing.T) {
		client := &scriptedClient{outputs: []string{"a", "b"}}
		ev := New(client, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline), examples, Options{UseJudge: false})
		require.NoError(t, err)
		for _, r := range results {
			assert.Nil(t, r.Judge)
		}
		assert.Nil(t, rep.Judge)
	})

	t.Run("judge enabled attaches a score per example", func(t *testing.T) {
		client := &scriptedClient{
			outputs:       []string{"a", "b"},
			judgeResponse: `{"accuracy": 4, "clarity": 4, "completeness": 3, "conciseness": 5, "overall": 4, "reasoning": "solid"}`,
		}
		ev := New(client, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainStructured), examples, Options{UseJudge: true})
		require.NoError(t, err)
		for _, r := range results {
			require.NotNil(t, r.Judge)
			assert.Equal(t, 4, r.Judge.Accuracy)
			assert.False(t, r.Judge.Fallback)
		}
		require.NotNil(t, rep.Judge)
		assert.InDelta(t, 4.0, rep.Judge.Overall.Mean, 1e-9)
	})

	t.Run("unparseable judge response degrades to fallback, not failure", func(t *testing.T) {
		client := &scriptedClient{
			outputs:       []string{"a", "b"},
			judgeResponse: "I think it is pretty good overall.",
		}
		ev := New(client, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline), examples, Options{UseJudge: true})
		require.NoError(t, err)
		for _, r := range results {
			require.NotNil(t, r.Judge)
			assert.True(t, r.Judge.Fallback)
			assert.Equal(t, domain.DefaultDimensionScore, r.Judge.Accuracy)
			assert.Equal(t, "I think it is pretty good overall.", r.Judge.RawResponse)
		}
		require.NotNil(t, rep.Judge)
		assert.InDelta(t, 1.0, rep.Judge.FallbackRate, 1e-9)
	})

	t.Run("generation failure aborts the run with the example index", func(t *testing.T) {
		client := &failAfterClient{n: 1}
		ev := New(client, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline), examples, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "example 1")
		assert.Contains(t, err.Error(), "generate")
		assert.Nil(t, results)
		assert.Nil(t, rep)
	})

	t.Run("empty dataset yields an empty run, not an error", func(t *testing.T) {
		ev := New(&scriptedClient{}, nil, nil)

		results, rep, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline), nil, Options{})
		require.NoError(t, err)
		assert.Empty(t, results)
		require.NotNil(t, rep)
		assert.Equal(t, 0, rep.N)
		assert.False(t, rep.HasData())
	})

	t.Run("custom word limit reaches the length check", func(t *testing.T) {
		client := &scriptedClient{outputs: []string{"one two three four five"}}
		ev := New(client, nil, nil)

		results, _, err := ev.Evaluate(context.Background(), mustChain(t, domain.ChainBaseline),
			examples[:1], Options{MaxWords: 3})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].LengthOK, "five words exceed a three-word limit")
	})
}

func TestOptionsMaxWords(t *testing.T) {
	assert.Equal(t, 20, Options{}.maxWords(), "zero selects the default limit")
	assert.Equal(t, 20, Options{MaxWords: -1}.maxWords())
	assert.Equal(t, 8, Options{MaxWords: 8}.maxWords())
}
