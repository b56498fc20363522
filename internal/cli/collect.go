package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rostrumlab/rostrum/internal/cache"
	"github.com/rostrumlab/rostrum/internal/factcheck"
	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/pipeline"
	"github.com/rostrumlab/rostrum/internal/source"
	"github.com/rostrumlab/rostrum/internal/store"
	"github.com/rostrumlab/rostrum/internal/util"
)

var (
	noLegislative bool
	noCaptions    bool
	noNews        bool
	noRSS         bool
	noSocial      bool
	maxPerSource  int
	noCache       bool
	fetchTimeout  time.Duration
	corpusPath    string
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect transcripts from all enabled sources and rebuild the corpus",
	Long: `Collect drives every enabled source adapter, merges the fetched
transcripts into the corpus with deduplication, re-derives quotes, labels,
fact-check annotations, and contradictions, and writes the corpus
atomically.

Provider credentials come from the environment:
  CONGRESS_API_KEY    legislative archive
  YOUTUBE_API_KEY     video captions
  SOCIAL_API_KEY      social archive (optional)
  FACTCHECK_API_URL   claim-review endpoint (mock fixtures when unset)
  FACTCHECK_API_KEY   claim-review credential

Example:
  rostrum collect
  rostrum collect --no-captions --no-social --max-per-source 10
  rostrum collect --no-cache --timeout 60s`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().BoolVar(&noLegislative, "no-legislative", false, "disable the legislative archive source")
	collectCmd.Flags().BoolVar(&noCaptions, "no-captions", false, "disable the video captions source")
	collectCmd.Flags().BoolVar(&noNews, "no-news", false, "disable the executive-branch news source")
	collectCmd.Flags().BoolVar(&noRSS, "no-rss", false, "disable the RSS feed source")
	collectCmd.Flags().BoolVar(&noSocial, "no-social", false, "disable the social archive source")

	collectCmd.Flags().IntVar(&maxPerSource, "max-per-source", 0, "cap items per source (0 = per-source default)")
	collectCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetches)")
	collectCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "per-request HTTP timeout")
	collectCmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file path (default from config)")
}

// loadConfig assembles the runtime configuration: defaults, then the config
// file, then environment credentials, then flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Sources.Legislative.APIKey = os.Getenv("CONGRESS_API_KEY")
	cfg.Sources.Captions.APIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.Sources.Social.APIKey = os.Getenv("SOCIAL_API_KEY")
	cfg.Output.Verbose = verbose

	return cfg, nil
}

// buildAdapters wires the enabled source adapters.
func buildAdapters(cfg *model.Config, speakers []model.Speaker) []source.Adapter {
	fetcher := source.NewFetcher(cfg.HTTP)
	robots := util.NewRobotsChecker(util.NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout)

	var adapters []source.Adapter
	if cfg.Sources.Legislative.Enabled && !noLegislative {
		adapters = append(adapters, source.NewLegislativeAdapter(cfg.Sources.Legislative, speakers,
			fetcher.WithDelay(cfg.Sources.Legislative.RequestDelay)))
	}
	if cfg.Sources.Captions.Enabled && !noCaptions {
		adapters = append(adapters, source.NewCaptionsAdapter(cfg.Sources.Captions, speakers,
			fetcher.WithDelay(cfg.Sources.Captions.RequestDelay)))
	}
	if cfg.Sources.News.Enabled && !noNews {
		adapters = append(adapters, source.NewNewsAdapter(cfg.Sources.News, speakers,
			fetcher.WithDelay(cfg.Sources.News.RequestDelay), robots))
	}
	if cfg.Sources.RSS.Enabled && !noRSS && len(cfg.Sources.RSS.Feeds) > 0 {
		adapters = append(adapters, source.NewRSSAdapter(cfg.Sources.RSS, speakers, cfg.HTTP))
	}
	if cfg.Sources.Social.Enabled && !noSocial && len(cfg.Sources.Social.Handles) > 0 {
		adapters = append(adapters, source.NewSocialAdapter(cfg.Sources.Social, speakers,
			fetcher.WithDelay(cfg.Sources.Social.RequestDelay)))
	}
	return adapters
}

// buildResolver picks the claim-review backend: the HTTP provider when an
// endpoint is configured, the embedded fixtures otherwise.
func buildResolver(cfg *model.Config) factcheck.Resolver {
	if baseURL := os.Getenv("FACTCHECK_API_URL"); baseURL != "" {
		return factcheck.NewHTTPResolver(baseURL, os.Getenv("FACTCHECK_API_KEY"), source.NewFetcher(cfg.HTTP))
	}
	return factcheck.NewMockResolver()
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg.HTTP.Timeout = fetchTimeout
	if maxPerSource > 0 {
		cfg.Sources.Legislative.MaxItems = maxPerSource
		cfg.Sources.Captions.MaxItems = maxPerSource
		cfg.Sources.News.MaxItems = maxPerSource
		cfg.Sources.RSS.MaxItems = maxPerSource
		cfg.Sources.Social.MaxItems = maxPerSource
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if corpusPath != "" {
		cfg.Paths.Corpus = corpusPath
	}

	speakers, err := store.LoadSpeakers(cfg.Paths.Speakers)
	if err != nil {
		return err
	}
	categories, err := store.LoadCategories(cfg.Paths.Categories)
	if err != nil {
		return err
	}

	adapters := buildAdapters(cfg, speakers)
	if len(adapters) == 0 {
		return fmt.Errorf("all sources disabled")
	}

	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		fetchCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Sources: %d enabled\n", len(adapters))
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Paths.Corpus)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := pipeline.NewCollector(cfg, adapters, speakers, categories,
		buildResolver(cfg), fetchCache, os.Stdout)

	if _, err := collector.Collect(ctx); err != nil {
		return fmt.Errorf("collect failed: %w", err)
	}

	return nil
}
