package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rostrumlab/rostrum/internal/cache"
	"github.com/rostrumlab/rostrum/internal/factcheck"
	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/source"
	"github.com/rostrumlab/rostrum/internal/store"
)

type stubAdapter struct {
	tag     string
	name    string
	items   []source.Candidate
	initErr error
	fetches int
}

func (a *stubAdapter) Tag() string  { return a.tag }
func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Initialize(ctx context.Context) error { return a.initErr }

func (a *stubAdapter) Fetch(ctx context.Context, opts source.FetchOptions) (*source.FetchResult, error) {
	a.fetches++
	return &source.FetchResult{Items: a.items}, nil
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Paths.Corpus = filepath.Join(t.TempDir(), "data", "transcripts.json")
	cfg.Concurrency.FetchWorkers = 2
	return cfg
}

func testSpeakers() []model.Speaker {
	return []model.Speaker{{
		ID:            "donald-trump",
		Name:          "Donald Trump",
		Roles:         []string{"President"},
		MatchPatterns: []string{"president trump"},
	}}
}

func testCategories() []model.Category {
	return []model.Category{
		{ID: "economy", Kind: model.CategoryTopic, Label: "Economy",
			Keywords: []string{"economy", "tax cuts", "crowd"}},
		{ID: "media", Kind: model.CategoryTopic, Label: "Media",
			Keywords: []string{"fake news", "the media"}},
		{ID: "fearmongering", Kind: model.CategoryRhetoric, Label: "Fearmongering",
			Severity: model.SeverityMedium, Keywords: []string{"destroy", "invasion"}},
	}
}

func newTestCollector(cfg *model.Config, adapters []source.Adapter, c cache.Cache) *Collector {
	collector := NewCollector(cfg, adapters, testSpeakers(), testCategories(),
		factcheck.NewMockResolver(), c, io.Discard)
	collector.now = func() time.Time { return time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC) }
	return collector
}

func speechCandidates() []source.Candidate {
	return []source.Candidate{
		{
			ExternalID:  "ev1",
			Title:       "Rally in Phoenix",
			Date:        "2025-05-01",
			URL:         "https://example.com/ev1",
			Text:        "We had the biggest crowd in history. We will ban fake news. Thank you.",
			SpeakerHint: "Donald Trump",
		},
		{
			ExternalID:  "ev2",
			Title:       "Remarks on the Economy",
			Date:        "2025-06-01",
			URL:         "https://example.com/ev2",
			Text:        "I support the tax cuts for the middle class. They will destroy the economy.",
			SpeakerHint: "Donald Trump",
		},
	}
}

func TestCollectBuildsCorpus(t *testing.T) {
	cfg := testConfig(t)
	adapter := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()}

	summary, err := newTestCollector(cfg, []source.Adapter{adapter}, nil).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if summary.TotalTranscripts != 2 {
		t.Errorf("TotalTranscripts = %d", summary.TotalTranscripts)
	}
	if len(summary.Sources) != 1 || summary.Sources[0].Added != 2 {
		t.Errorf("summary = %+v", summary.Sources)
	}

	corpus, err := store.LoadCorpus(cfg.Paths.Corpus)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(corpus.Transcripts) != 2 {
		t.Fatalf("transcripts = %d", len(corpus.Transcripts))
	}

	// Sorted date descending: ev2 (June) before ev1 (May).
	if corpus.Transcripts[0].ID != "wh-ev2" || corpus.Transcripts[1].ID != "wh-ev1" {
		t.Errorf("order = %q, %q", corpus.Transcripts[0].ID, corpus.Transcripts[1].ID)
	}
	if corpus.Transcripts[0].SpeakerID != "donald-trump" {
		t.Errorf("speaker not resolved: %q", corpus.Transcripts[0].SpeakerID)
	}

	var crowdQuote *model.Quote
	for i := range corpus.Transcripts {
		for j := range corpus.Transcripts[i].ExtractedQuotes {
			q := &corpus.Transcripts[i].ExtractedQuotes[j]
			if q.FactCheck != nil {
				crowdQuote = q
			}
		}
	}
	if crowdQuote == nil {
		t.Fatal("expected a fact-checked quote")
	}
	if crowdQuote.FactCheck.Rating != model.RatingFalse {
		t.Errorf("rating = %q", crowdQuote.FactCheck.Rating)
	}
	if len(crowdQuote.Topics) == 0 {
		t.Error("quote not classified")
	}

	if corpus.LastUpdated == "" || corpus.Stats.TotalQuotes == 0 {
		t.Errorf("stats not recomputed: %+v", corpus.Stats)
	}
}

func TestCollectIdempotent(t *testing.T) {
	cfg := testConfig(t)
	adapter := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()}
	collector := newTestCollector(cfg, []source.Adapter{adapter}, nil)

	if _, err := collector.Collect(context.Background()); err != nil {
		t.Fatalf("first Collect: %v", err)
	}
	first, err := os.ReadFile(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("second Collect: %v", err)
	}
	if summary.Sources[0].Added != 0 {
		t.Errorf("second run added %d records", summary.Sources[0].Added)
	}
	if summary.Sources[0].Duplicates != 2 {
		t.Errorf("second run duplicates = %d", summary.Sources[0].Duplicates)
	}

	second, err := os.ReadFile(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}

	var a, b model.Corpus
	if err := json.Unmarshal(first, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second, &b); err != nil {
		t.Fatal(err)
	}
	a.LastUpdated, b.LastUpdated = "", ""
	if !reflect.DeepEqual(a, b) {
		t.Error("corpus changed across identical runs")
	}
}

func TestCollectDedupsBySourceURL(t *testing.T) {
	cfg := testConfig(t)
	first := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()[:1]}

	// Same article discovered through a different source with no external id.
	dup := speechCandidates()[0]
	dup.ExternalID = ""
	second := &stubAdapter{tag: "rss", name: "RSS Feed", items: []source.Candidate{dup}}

	collector := newTestCollector(cfg, []source.Adapter{first, second}, nil)
	summary, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if summary.TotalTranscripts != 1 {
		t.Errorf("TotalTranscripts = %d, want 1", summary.TotalTranscripts)
	}
}

func TestCollectMetadataOnlyUpdate(t *testing.T) {
	cfg := testConfig(t)
	items := speechCandidates()[:1]
	adapter := &stubAdapter{tag: "wh", name: "White House", items: items}
	collector := newTestCollector(cfg, []source.Adapter{adapter}, nil)

	if _, err := collector.Collect(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Re-fetch with changed metadata and (erroneously) changed text: only
	// the metadata may move.
	changed := items[0]
	changed.Text = "Completely different text."
	changed.Metadata = map[string]any{"revision": "2"}
	adapter.items = []source.Candidate{changed}

	if _, err := collector.Collect(context.Background()); err != nil {
		t.Fatal(err)
	}

	corpus, err := store.LoadCorpus(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}
	tr := corpus.Transcripts[0]
	if tr.FullText != items[0].Text {
		t.Errorf("full text mutated: %q", tr.FullText)
	}
	if tr.Metadata["revision"] != "2" {
		t.Errorf("metadata not updated: %+v", tr.Metadata)
	}
}

func TestCollectCancelledWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	if err := store.SaveCorpus(cfg.Paths.Corpus, model.NewCorpus()); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()}
	if _, err := newTestCollector(cfg, []source.Adapter{adapter}, nil).Collect(ctx); err == nil {
		t.Fatal("expected error for cancelled run")
	}

	after, err := os.ReadFile(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("cancelled run modified the corpus")
	}
}

func TestCollectAdapterFailureIsNonFatal(t *testing.T) {
	cfg := testConfig(t)
	broken := &stubAdapter{tag: "leg", name: "Legislative Archive", initErr: context.DeadlineExceeded}
	working := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()}

	summary, err := newTestCollector(cfg, []source.Adapter{broken, working}, nil).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if summary.TotalTranscripts != 2 {
		t.Errorf("working adapter output lost: %d transcripts", summary.TotalTranscripts)
	}
	if summary.Sources[0].Failed == nil {
		t.Error("broken adapter not reported")
	}
}

func TestCollectUsesCache(t *testing.T) {
	cfg := testConfig(t)
	diskCache := cache.NewDiskCache(t.TempDir(), time.Hour)
	adapter := &stubAdapter{tag: "wh", name: "White House", items: speechCandidates()}
	collector := newTestCollector(cfg, []source.Adapter{adapter}, diskCache)

	if _, err := collector.Collect(context.Background()); err != nil {
		t.Fatal(err)
	}
	summary, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if adapter.fetches != 1 {
		t.Errorf("adapter fetched %d times, want 1", adapter.fetches)
	}
	if !summary.Sources[0].FromCache {
		t.Error("second run not served from cache")
	}
	if summary.TotalTranscripts != 2 {
		t.Errorf("TotalTranscripts = %d", summary.TotalTranscripts)
	}
}

func TestCollectFindsContradictions(t *testing.T) {
	cfg := testConfig(t)
	adapter := &stubAdapter{tag: "wh", name: "White House", items: []source.Candidate{
		{
			ExternalID:  "a",
			Date:        "2021-01-01",
			URL:         "https://example.com/a",
			Text:        "They know I support the tax cuts for the middle class.",
			SpeakerHint: "Donald Trump",
		},
		{
			ExternalID:  "b",
			Date:        "2023-01-01",
			URL:         "https://example.com/b",
			Text:        "They know I oppose the tax cuts for the middle class.",
			SpeakerHint: "Donald Trump",
		},
	}}

	collector := newTestCollector(cfg, []source.Adapter{adapter}, nil)
	if _, err := collector.Collect(context.Background()); err != nil {
		t.Fatal(err)
	}

	corpus, err := store.LoadCorpus(cfg.Paths.Corpus)
	if err != nil {
		t.Fatal(err)
	}

	found := corpus.Contradictions["donald-trump"]
	if len(found) == 0 {
		t.Fatal("expected contradictions for the speaker")
	}
	for _, c := range found {
		if c.SpeakerID != "donald-trump" {
			t.Errorf("contradiction for wrong speaker: %+v", c)
		}
		if c.Quote1.Source == "" {
			t.Errorf("quote ref missing source: %+v", c.Quote1)
		}
	}
}
