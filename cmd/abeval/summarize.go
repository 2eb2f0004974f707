package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-abeval/internal/chains"
	"github.com/ahrav/go-abeval/internal/domain"
)

func newSummarizeCmd(flags *rootFlags) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Run both chains once on one input, for quick prompt iteration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := buildHarness(flags)
			if err != nil {
				return err
			}
			defer h.close()

			for _, id := range []domain.ChainID{domain.ChainBaseline, domain.ChainStructured} {
				chain, err := chains.ForID(id)
				if err != nil {
					return err
				}

				output, err := chain.Run(cmd.Context(), h.client, h.sink, text)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n%s\n\n", id, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "text to summarize")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
