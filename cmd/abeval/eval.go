package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/dataset"
	"github.com/ahrav/go-abeval/internal/evaluation"
)

func newEvalCmd(flags *rootFlags) *cobra.Command {
	var (
		chainName   string
		datasetPath string
		noJudge     bool
		maxWords    int
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one chain across a dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := chains.Resolve(chainName)
			if err != nil {
				return err
			}

			examples, err := dataset.Load(datasetPath)
			if err != nil {
				return err
			}

			h, err := buildHarness(flags)
			if err != nil {
				return err
			}
			defer h.close()

			evaluator := evaluation.New(h.client, h.sink, nil)
			results, rep, err := evaluator.Evaluate(cmd.Context(), chain, examples, evaluation.Options{
				UseJudge: !noJudge,
				MaxWords: maxWords,
			})
			if err != nil {
				return err
			}

			if err := writeJSONL(outPath, len(results), func(i int) any { return results[i] }); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().StringVar(&chainName, "chain", "", "chain to evaluate (v0 or v1)")
	cmd.Flags().StringVar(&datasetPath, "dataset", "data/examples.jsonl", "JSONL dataset file")
	cmd.Flags().BoolVar(&noJudge, "no-judge", false, "skip LLM judge evaluation (faster, less insightful)")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "summary word limit for the length check (default 20)")
	cmd.Flags().StringVar(&outPath, "out", "results.jsonl", "per-example results output file")
	_ = cmd.MarkFlagRequired("chain")

	return cmd
}

// writeJSONL persists n records, one JSON object per line.
func writeJSONL(path string, n int, record func(int) any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for i := 0; i < n; i++ {
		if err := enc.Encode(record(i)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// printJSON renders a summary object with indentation.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
