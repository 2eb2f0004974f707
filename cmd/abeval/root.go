package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-abeval/internal/config"
	"github.com/ahrav/go-abeval/internal/llm"
	"github.com/ahrav/go-abeval/pkg/trace"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "abeval",
		Short:         "Offline A/B evaluation harness for summarization chains",
		Long: `abeval evaluates prompt-engineering variants of a summarization chain
against a JSONL dataset, using deterministic rule-based metrics and an
LLM judge, and compares two variants head-to-head.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "abeval.yaml",
		"configuration file (optional; defaults target local Ollama)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"enable debug logging")

	cmd.AddCommand(
		newEvalCmd(flags),
		newCompareCmd(flags),
		newSummarizeCmd(flags),
	)

	return cmd
}

// harness bundles the collaborators every command needs.
type harness struct {
	cfg    config.Config
	client llm.Client
	sink   trace.Sink
	closer func() error
}

// buildHarness loads configuration and constructs the generation client and
// trace sink. Callers must invoke close when done.
func buildHarness(flags *rootFlags) (*harness, error) {
	cfg, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(cfg.ClientConfig())
	if err != nil {
		return nil, err
	}

	var sink trace.Sink = trace.NoOpSink{}
	closer := func() error { return nil }
	if cfg.TracePath != "" {
		jsonlSink, err := trace.NewJSONLSink(cfg.TracePath)
		if err != nil {
			return nil, fmt.Errorf("open trace sink: %w", err)
		}
		sink = jsonlSink
		closer = jsonlSink.Close
	}

	return &harness{cfg: cfg, client: client, sink: sink, closer: closer}, nil
}

func (h *harness) close() {
	if err := h.closer(); err != nil {
		slog.Warn("failed to close trace sink", "error", err)
	}
}
