package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// optional config file, environment variables, and CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Sources     SourcesConfig     `yaml:"sources" json:"sources"`
	Extract     ExtractConfig     `yaml:"extract" json:"extract"`
	Contradict  ContradictConfig  `yaml:"contradict" json:"contradict"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Paths       PathsConfig       `yaml:"paths" json:"paths"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig controls outbound requests shared by all adapters.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"userAgent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"maxBodyBytes"`
	MaxRetries   int           `yaml:"max_retries" json:"maxRetries"`
}

// CacheConfig controls the per-adapter fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	// Entries older than EvictAfter are removed at run start.
	EvictAfter time.Duration `yaml:"evict_after" json:"evictAfter"`
}

// SourceConfig is the per-adapter knob set. Feeds is read by the RSS
// adapter, Handles by the social-archive adapter; the rest are shared.
type SourceConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	BaseURL      string        `yaml:"base_url,omitempty" json:"baseUrl,omitempty"`
	APIKey       string        `yaml:"api_key,omitempty" json:"-"`
	MaxItems     int           `yaml:"max_items" json:"maxItems"`
	MaxPerHour   int           `yaml:"max_per_hour" json:"maxPerHour"`
	RequestDelay time.Duration `yaml:"request_delay" json:"requestDelay"`
	Feeds        []string      `yaml:"feeds,omitempty" json:"feeds,omitempty"`
	Handles      []string      `yaml:"handles,omitempty" json:"handles,omitempty"`
}

// SourcesConfig carries one SourceConfig per adapter.
type SourcesConfig struct {
	Legislative SourceConfig `yaml:"legislative" json:"legislative"`
	Captions    SourceConfig `yaml:"captions" json:"captions"`
	News        SourceConfig `yaml:"news" json:"news"`
	RSS         SourceConfig `yaml:"rss" json:"rss"`
	Social      SourceConfig `yaml:"social" json:"social"`
}

// ExtractConfig tunes quote extraction.
type ExtractConfig struct {
	MinScore         int `yaml:"min_score" json:"minScore"`
	MaxQuotes        int `yaml:"max_quotes" json:"maxQuotes"`
	ContextSentences int `yaml:"context_sentences" json:"contextSentences"`
	MergeThreshold   int `yaml:"merge_threshold" json:"mergeThreshold"` // 0 disables merging
}

// ContradictConfig tunes contradiction detection.
type ContradictConfig struct {
	MinConfidence float64 `yaml:"min_confidence" json:"minConfidence"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers" json:"fetchWorkers"`
}

// PathsConfig locates the data files the pipeline reads and writes.
type PathsConfig struct {
	Corpus     string `yaml:"corpus" json:"corpus"`
	Speakers   string `yaml:"speakers" json:"speakers"`
	Categories string `yaml:"categories" json:"categories"`
}

// OutputConfig controls run reporting.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults for every knob.
func DefaultConfig() *Config {
	source := func(maxItems, maxPerHour int) SourceConfig {
		return SourceConfig{
			Enabled:      true,
			MaxItems:     maxItems,
			MaxPerHour:   maxPerHour,
			RequestDelay: 500 * time.Millisecond,
		}
	}
	withBase := func(cfg SourceConfig, base string) SourceConfig {
		cfg.BaseURL = base
		return cfg
	}

	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Rostrum/0.1 (+https://github.com/rostrumlab/rostrum)",
			MaxBodyBytes: 2_000_000,
			MaxRetries:   3,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        ".rostrum-cache",
			TTL:        24 * time.Hour,
			EvictAfter: 7 * 24 * time.Hour,
		},
		Sources: SourcesConfig{
			Legislative: withBase(source(25, 100), "https://api.congress.gov/v3"),
			Captions:    withBase(source(25, 100), "https://www.googleapis.com/youtube/v3"),
			News:        withBase(source(30, 200), "https://www.whitehouse.gov"),
			RSS:         source(50, 200),
			Social:      source(50, 200),
		},
		Extract: ExtractConfig{
			MinScore:         3,
			MaxQuotes:        50,
			ContextSentences: 1,
		},
		Contradict: ContradictConfig{
			MinConfidence: 0.3,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 3,
		},
		Paths: PathsConfig{
			Corpus:     "data/transcripts.json",
			Speakers:   "data/speakers.json",
			Categories: "data/categories.json",
		},
	}
}
