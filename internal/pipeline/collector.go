// Package pipeline drives the collection run: adapters fetch candidates
// with caching and bounded concurrency, the results are merged and
// deduplicated into the corpus, analysis enriches every transcript, and the
// corpus is written atomically.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rostrumlab/rostrum/internal/cache"
	"github.com/rostrumlab/rostrum/internal/classify"
	"github.com/rostrumlab/rostrum/internal/contradict"
	"github.com/rostrumlab/rostrum/internal/extract"
	"github.com/rostrumlab/rostrum/internal/factcheck"
	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/source"
	"github.com/rostrumlab/rostrum/internal/store"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// evictor is the optional cache capability for run-start eviction.
type evictor interface {
	Evict(maxAge time.Duration) error
}

// SourceReport is the per-adapter slice of a run summary.
type SourceReport struct {
	Name        string
	Fetched     int
	Added       int
	Duplicates  int
	Errors      int
	RateLimited bool
	FromCache   bool
	Failed      error
}

// RunSummary is what one collection run reports.
type RunSummary struct {
	Sources            []SourceReport
	TotalTranscripts   int
	TotalQuotes        int
	TotalContradiction int
}

// Collector orchestrates one collection run. Adapters never touch the
// corpus; the collector owns it end to end.
type Collector struct {
	cfg        *model.Config
	adapters   []source.Adapter
	speakers   []model.Speaker
	extractor  *extract.Extractor
	classifier *classify.Classifier
	resolver   factcheck.Resolver
	finder     *contradict.Finder
	cache      cache.Cache
	out        io.Writer

	now func() time.Time
}

// NewCollector wires a collector from its parts. The cache may be nil, in
// which case every run fetches fresh.
func NewCollector(cfg *model.Config, adapters []source.Adapter, speakers []model.Speaker,
	categories []model.Category, resolver factcheck.Resolver, c cache.Cache, out io.Writer) *Collector {

	if out == nil {
		out = io.Discard
	}

	return &Collector{
		cfg:        cfg,
		adapters:   adapters,
		speakers:   speakers,
		extractor:  extract.NewExtractor(cfg.Extract),
		classifier: classify.New(categories),
		resolver:   resolver,
		finder:     contradict.NewFinder(cfg.Contradict),
		cache:      c,
		out:        out,
		now:        time.Now,
	}
}

// Collect runs the full pipeline: fetch, merge, analyze, persist. On any
// failure before the final write the on-disk corpus is untouched.
func (c *Collector) Collect(ctx context.Context) (*RunSummary, error) {
	if c.cache != nil {
		if ev, ok := c.cache.(evictor); ok && c.cfg.Cache.EvictAfter > 0 {
			if err := ev.Evict(c.cfg.Cache.EvictAfter); err != nil {
				fmt.Fprintf(c.out, "warning: cache eviction failed: %v\n", err)
			}
		}
	}

	corpus, err := store.LoadCorpus(c.cfg.Paths.Corpus)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	results := c.fetchAll(ctx)

	for _, r := range results {
		report := c.merge(corpus, r)
		summary.Sources = append(summary.Sources, report)
		fmt.Fprintf(c.out, "%-20s fetched=%-4d added=%-4d dup=%-4d errors=%d%s\n",
			report.Name, report.Fetched, report.Added, report.Duplicates, report.Errors,
			reportFlags(report))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortTranscripts(corpus.Transcripts)
	c.analyze(ctx, corpus)
	c.correlate(corpus)
	corpus.Stats = computeStats(corpus)
	corpus.LastUpdated = c.now().UTC().Format(time.RFC3339)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.SaveCorpus(c.cfg.Paths.Corpus, corpus); err != nil {
		return nil, err
	}

	summary.TotalTranscripts = corpus.Stats.TotalTranscripts
	summary.TotalQuotes = corpus.Stats.TotalQuotes
	for _, list := range corpus.Contradictions {
		summary.TotalContradiction += len(list)
	}
	fmt.Fprintf(c.out, "corpus: %d transcripts, %d quotes, %d contradictions\n",
		summary.TotalTranscripts, summary.TotalQuotes, summary.TotalContradiction)

	return summary, nil
}

// fetchResult carries one adapter's outcome through the worker pool.
type fetchResult struct {
	tag       string
	name      string
	res       *source.FetchResult
	err       error
	fromCache bool
}

func (r *fetchResult) GetError() error { return r.err }

// fetchJob runs one adapter, consulting the cache first.
type fetchJob struct {
	collector *Collector
	adapter   source.Adapter
	maxItems  int
}

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	a := j.adapter
	out := &fetchResult{tag: a.Tag(), name: a.Name()}

	key := cache.Key(a.Tag(), j.collector.now().UTC().Format("2006-01-02"))
	if j.collector.cache != nil {
		if data, ok := j.collector.cache.Get(key); ok {
			var items []source.Candidate
			if err := json.Unmarshal(data, &items); err == nil {
				out.res = &source.FetchResult{Items: items}
				out.fromCache = true
				return out
			}
		}
	}

	if err := a.Initialize(ctx); err != nil {
		out.err = fmt.Errorf("%s: initialize: %w", a.Name(), err)
		return out
	}

	res, err := a.Fetch(ctx, source.FetchOptions{MaxItems: j.maxItems})
	out.res = res
	out.err = err
	if err != nil && !errors.Is(err, source.ErrRateLimited) {
		out.err = fmt.Errorf("%s: fetch: %w", a.Name(), err)
		return out
	}

	// Cache only complete fetches; a rate-limited partial retries next run.
	if err == nil && j.collector.cache != nil && res != nil {
		if data, mErr := json.Marshal(res.Items); mErr == nil {
			_ = j.collector.cache.Set(key, data)
		}
	}

	return out
}

// fetchAll drives the adapters through the worker pool and returns their
// results in a deterministic order (adapter registration order).
func (c *Collector) fetchAll(ctx context.Context) []*fetchResult {
	pool := worker.NewPool(ctx, c.cfg.Concurrency.FetchWorkers)
	pool.Start()

	for _, a := range c.adapters {
		maxItems := c.maxItemsFor(a.Tag())
		pool.Submit(&fetchJob{collector: c, adapter: a, maxItems: maxItems})
	}

	byTag := make(map[string]*fetchResult)
	for _, r := range pool.Wait() {
		fr := r.(*fetchResult)
		byTag[fr.tag] = fr
	}

	ordered := make([]*fetchResult, 0, len(byTag))
	for _, a := range c.adapters {
		if fr, ok := byTag[a.Tag()]; ok {
			ordered = append(ordered, fr)
		}
	}
	return ordered
}

func (c *Collector) maxItemsFor(tag string) int {
	s := c.cfg.Sources
	switch tag {
	case "leg":
		return s.Legislative.MaxItems
	case "yt":
		return s.Captions.MaxItems
	case "wh":
		return s.News.MaxItems
	case "rss":
		return s.RSS.MaxItems
	case "soc":
		return s.Social.MaxItems
	}
	return 0
}

// merge folds one adapter's candidates into the corpus. A candidate whose
// id matches an existing transcript updates metadata only; a candidate
// whose source URL matches an existing transcript is dropped silently.
func (c *Collector) merge(corpus *model.Corpus, r *fetchResult) SourceReport {
	report := SourceReport{
		Name:        r.name,
		FromCache:   r.fromCache,
		RateLimited: errors.Is(r.err, source.ErrRateLimited),
	}
	if r.err != nil && !report.RateLimited {
		report.Failed = r.err
		return report
	}
	if r.res == nil {
		return report
	}

	report.Errors = len(r.res.Errors)

	byID := make(map[string]int, len(corpus.Transcripts))
	byURL := make(map[string]int, len(corpus.Transcripts))
	for i, t := range corpus.Transcripts {
		byID[t.ID] = i
		if t.SourceURL != "" {
			byURL[t.SourceURL] = i
		}
	}

	for _, candidate := range r.res.Items {
		report.Fetched++
		if candidate.Text == "" {
			report.Errors++
			continue
		}

		t := source.ToTranscript(r.tag, r.name, candidate, c.speakers)

		if i, ok := byID[t.ID]; ok {
			if len(t.Metadata) > 0 {
				corpus.Transcripts[i].Metadata = t.Metadata
			}
			report.Duplicates++
			continue
		}
		if t.SourceURL != "" {
			if _, ok := byURL[t.SourceURL]; ok {
				report.Duplicates++
				continue
			}
		}

		corpus.Transcripts = append(corpus.Transcripts, t)
		byID[t.ID] = len(corpus.Transcripts) - 1
		if t.SourceURL != "" {
			byURL[t.SourceURL] = len(corpus.Transcripts) - 1
		}
		report.Added++
	}

	return report
}

// sortTranscripts orders by date descending with undated records last; ties
// break on id so the order is stable across runs.
func sortTranscripts(transcripts []model.Transcript) {
	sort.SliceStable(transcripts, func(i, j int) bool {
		a, b := transcripts[i], transcripts[j]
		if a.Date != b.Date {
			if a.Date == "" {
				return false
			}
			if b.Date == "" {
				return true
			}
			return a.Date > b.Date
		}
		return a.ID < b.ID
	})
}

// analyze re-derives every transcript's quotes and enriches them. Creation
// timestamps carry over from the previous run's quote with the same id, so
// an unchanged input re-produces the corpus byte for byte.
func (c *Collector) analyze(ctx context.Context, corpus *model.Corpus) {
	createdAt := make(map[string]string)
	for _, t := range corpus.Transcripts {
		for _, q := range t.ExtractedQuotes {
			if q.CreatedAt != "" {
				createdAt[q.ID] = q.CreatedAt
			}
		}
	}
	nowStamp := c.now().UTC().Format(time.RFC3339)

	for i := range corpus.Transcripts {
		quotes := c.extractor.Extract(corpus.Transcripts[i])
		for j := range quotes {
			c.classifier.Apply(&quotes[j])
			if c.resolver != nil {
				quotes[j].FactCheck = c.resolver.Check(ctx, quotes[j].Text)
			}
			if stamp, ok := createdAt[quotes[j].ID]; ok {
				quotes[j].CreatedAt = stamp
			} else {
				quotes[j].CreatedAt = nowStamp
			}
		}
		corpus.Transcripts[i].ExtractedQuotes = quotes
	}
}

// correlate rebuilds the contradiction map, one detector pass per distinct
// speaker.
func (c *Collector) correlate(corpus *model.Corpus) {
	byTranscript := make(map[string]model.Transcript, len(corpus.Transcripts))
	speakerSet := make(map[string]bool)
	var quotes []model.Quote

	for _, t := range corpus.Transcripts {
		byTranscript[t.ID] = t
		if t.SpeakerID != "" {
			speakerSet[t.SpeakerID] = true
		}
		quotes = append(quotes, t.ExtractedQuotes...)
	}

	speakers := make([]string, 0, len(speakerSet))
	for id := range speakerSet {
		speakers = append(speakers, id)
	}
	sort.Strings(speakers)

	corpus.Contradictions = map[string][]model.Contradiction{}
	for _, id := range speakers {
		found := c.finder.Find(id, quotes, byTranscript)
		if len(found) > 0 {
			corpus.Contradictions[id] = found
		}
	}
}

func reportFlags(r SourceReport) string {
	switch {
	case r.Failed != nil:
		return fmt.Sprintf(" FAILED (%v)", r.Failed)
	case r.RateLimited:
		return " (rate limited)"
	case r.FromCache:
		return " (cached)"
	}
	return ""
}
