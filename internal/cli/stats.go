package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rostrumlab/rostrum/internal/store"
)

var statsCorpusPath string

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsCorpusPath, "corpus", "", "corpus file path (default from config)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if statsCorpusPath != "" {
		cfg.Paths.Corpus = statsCorpusPath
	}

	corpus, err := store.LoadCorpus(cfg.Paths.Corpus)
	if err != nil {
		return err
	}

	s := corpus.Stats
	contradictions := 0
	for _, list := range corpus.Contradictions {
		contradictions += len(list)
	}

	fmt.Printf("Corpus: %s\n", cfg.Paths.Corpus)
	if corpus.LastUpdated != "" {
		fmt.Printf("Last updated: %s\n", corpus.LastUpdated)
	}
	fmt.Println()
	fmt.Printf("Transcripts:    %d\n", s.TotalTranscripts)
	fmt.Printf("Quotes:         %d\n", s.TotalQuotes)
	fmt.Printf("High severity:  %d\n", s.HighSeverityCount)
	fmt.Printf("Contradictions: %d\n", contradictions)

	printCounts("By speaker", s.BySpeaker)
	printCounts("By source", s.BySource)
	printCounts("By event type", s.ByEventType)
	printCounts("By topic", s.ByTopic)
	printCounts("By rhetoric", s.ByRhetoric)
	printCounts("By fact-check rating", s.ByFactCheckRating)

	return nil
}

// printCounts renders one counter map sorted by descending count, ties by
// key.
func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, counts[k])
	}
}
