package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaOK(t *testing.T) {
	t.Run("accepts JSON object with summary and sentiment", func(t *testing.T) {
		assert.True(t, SchemaOK(`{"summary":"ok","sentiment":"neutral"}`))
	})

	t.Run("accepts extra fields and surrounding whitespace", func(t *testing.T) {
		assert.True(t, SchemaOK("  {\"summary\":\"s\",\"sentiment\":\"positive\",\"extra\":1}\n"))
	})

	t.Run("rejects plain text", func(t *testing.T) {
		assert.False(t, SchemaOK("plain text"))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		assert.False(t, SchemaOK(`{"summary":"ok","sentiment":`))
	})

	t.Run("rejects missing sentiment", func(t *testing.T) {
		assert.False(t, SchemaOK(`{"summary":"ok"}`))
	})

	t.Run("rejects missing summary", func(t *testing.T) {
		assert.False(t, SchemaOK(`{"sentiment":"negative"}`))
	})

	t.Run("rejects non-object JSON", func(t *testing.T) {
		assert.False(t, SchemaOK(`["summary","sentiment"]`))
		assert.False(t, SchemaOK(`"summary"`))
		assert.False(t, SchemaOK(`42`))
	})

	t.Run("never panics on arbitrary input", func(t *testing.T) {
		inputs := []string{"", "{", "}", "{{}}", "\x00\xff", `{"summary":}`}
		for _, in := range inputs {
			assert.NotPanics(t, func() { SchemaOK(in) }, "input %q", in)
		}
	})
}

func TestSummaryText(t *testing.T) {
	t.Run("extracts summary field from structured output", func(t *testing.T) {
		got := SummaryText(`{"summary":"short version","sentiment":"neutral"}`)
		assert.Equal(t, "short version", got)
	})

	t.Run("returns whole text for plain output", func(t *testing.T) {
		assert.Equal(t, "just a sentence", SummaryText("just a sentence"))
	})

	t.Run("returns whole text when JSON lacks a string summary", func(t *testing.T) {
		assert.Equal(t, `{"sentiment":"neutral"}`, SummaryText(`{"sentiment":"neutral"}`))
		assert.Equal(t, `{"summary":7}`, SummaryText(`{"summary":7}`))
	})

	t.Run("returns whole text for malformed JSON", func(t *testing.T) {
		assert.Equal(t, `{"summary":"broken`, SummaryText(`{"summary":"broken`))
	})
}

func TestLengthOK(t *testing.T) {
	t.Run("counts words in plain text", func(t *testing.T) {
		assert.True(t, LengthOK("one two three", 3))
		assert.False(t, LengthOK("one two three", 2))
	})

	t.Run("counts only the summary field of structured output", func(t *testing.T) {
		output := `{"summary":"two words","sentiment":"a long sentiment label that would exceed any limit"}`
		assert.True(t, LengthOK(output, 2))
	})

	t.Run("empty output is within any limit", func(t *testing.T) {
		assert.True(t, LengthOK("", 0))
	})

	t.Run("monotonic in max words", func(t *testing.T) {
		outputs := []string{
			"a b c d e f g",
			`{"summary":"one two three four five","sentiment":"neutral"}`,
			"punctuation, does-not; add words!",
		}
		for _, out := range outputs {
			for k := 0; k < 12; k++ {
				if LengthOK(out, k) {
					assert.True(t, LengthOK(out, k+1),
						"accepted at %d but rejected at %d for %q", k, k+1, out)
				}
			}
		}
	})
}

func TestFaithfulness(t *testing.T) {
	t.Run("identical non-empty text scores exactly one", func(t *testing.T) {
		s := "the quick brown fox"
		assert.InDelta(t, 1.0, Faithfulness(s, s), 0)
	})

	t.Run("empty reference scores exactly zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, Faithfulness("anything at all", ""), 0)
		assert.InDelta(t, 0.0, Faithfulness("anything", "... !!! ..."), 0,
			"reference with no word tokens behaves like empty")
	})

	t.Run("partial overlap is the fraction of reference tokens covered", func(t *testing.T) {
		// Reference has 4 unique tokens; output covers 2 of them.
		got := Faithfulness("alpha beta", "alpha beta gamma delta")
		assert.InDelta(t, 0.5, got, 1e-9)
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.InDelta(t, 1.0, Faithfulness("ALPHA Beta", "alpha beta"), 0)
	})

	t.Run("uses the summary field of structured output", func(t *testing.T) {
		output := `{"summary":"alpha beta","sentiment":"neutral"}`
		assert.InDelta(t, 1.0, Faithfulness(output, "alpha beta"), 0)
	})

	t.Run("verbose output containing the full reference still scores one", func(t *testing.T) {
		got := Faithfulness("alpha beta plus lots of unrelated padding", "alpha beta")
		assert.InDelta(t, 1.0, got, 0, "recall-style metric does not penalize padding")
	})

	t.Run("bounded in zero one", func(t *testing.T) {
		cases := []struct{ output, reference string }{
			{"", "ref words"},
			{"ref", "ref words"},
			{"completely different", "ref words"},
			{"ref words and more", "ref words"},
		}
		for i, tc := range cases {
			got := Faithfulness(tc.output, tc.reference)
			require.GreaterOrEqual(t, got, 0.0, "case %d", i)
			require.LessOrEqual(t, got, 1.0, "case %d", i)
		}
	})

	t.Run("duplicate tokens count once", func(t *testing.T) {
		got := Faithfulness("alpha alpha alpha", "alpha beta")
		assert.InDelta(t, 0.5, got, 1e-9)
	})
}

func ExampleFaithfulness() {
	fmt.Printf("%.2f\n", Faithfulness("the launch succeeded", "the launch succeeded today"))
	// Output: 0.75
}
