package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rostrumlab/rostrum/internal/pipeline"
	"github.com/rostrumlab/rostrum/internal/store"
)

var analyzeCorpusPath string

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Re-run analysis on the existing corpus without fetching",
	Long: `Analyze re-derives quotes, topic and rhetoric labels, fact-check
annotations, contradictions, and statistics from the transcripts already
in the corpus. No source is contacted. Useful after editing the speaker
or category config.

Example:
  rostrum analyze
  rostrum analyze --corpus data/transcripts.json`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeCorpusPath, "corpus", "", "corpus file path (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeCorpusPath != "" {
		cfg.Paths.Corpus = analyzeCorpusPath
	}

	speakers, err := store.LoadSpeakers(cfg.Paths.Speakers)
	if err != nil {
		return err
	}
	categories, err := store.LoadCategories(cfg.Paths.Categories)
	if err != nil {
		return err
	}

	// A collector with no adapters re-runs the analysis stages and rewrites
	// the corpus atomically.
	collector := pipeline.NewCollector(cfg, nil, speakers, categories,
		buildResolver(cfg), nil, os.Stdout)

	if _, err := collector.Collect(context.Background()); err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	return nil
}
