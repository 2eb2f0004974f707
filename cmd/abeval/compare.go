package main

import (
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/comparison"
	"github.com/ahrav/go-abeval/internal/dataset"
	"github.com/ahrav/go-abeval/internal/domain"
)

func newCompareCmd(flags *rootFlags) *cobra.Command {
	var (
		datasetPath string
		noJudge     bool
		seed        int64
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the baseline and structured chains head-to-head",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainA, err := chains.ForID(domain.ChainBaseline)
			if err != nil {
				return err
			}
			chainB, err := chains.ForID(domain.ChainStructured)
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

			opts := comparison.Options{UseJudge: !noJudge}
			if cmd.Flags().Changed("seed") {
				opts.Rand = rand.New(rand.NewSource(seed))
			}

			comparator := comparison.New(h.client, h.sink, nil)
			results, summary, err := comparator.Compare(cmd.Context(), chainA, chainB, examples, opts)
			if err != nil {
				return err
			}

			if err := writeJSONL(outPath, len(results), func(i int) any { return results[i] }); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "data/examples.jsonl", "JSONL dataset file")
	cmd.Flags().BoolVar(&noJudge, "no-judge", false, "skip LLM judge comparison (rule-based only)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for positional de-biasing (fixed seed makes runs reproducible)")
	cmd.Flags().StringVar(&outPath, "out", "ab_results.jsonl", "per-example comparison output file")

	return cmd
}
