package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// RSSAdapter collects statements and press releases from RSS/Atom feeds.
type RSSAdapter struct {
	cfg      model.SourceConfig
	speakers []model.Speaker
	parser   *gofeed.Parser
	window   *worker.HourlyWindow
}

// NewRSSAdapter creates the rss-feed adapter.
func NewRSSAdapter(cfg model.SourceConfig, speakers []model.Speaker, httpCfg model.HTTPConfig) *RSSAdapter {
	parser := gofeed.NewParser()
	parser.UserAgent = httpCfg.UserAgent
	parser.Client = &http.Client{Timeout: httpCfg.Timeout}

	return &RSSAdapter{
		cfg:      cfg,
		speakers: speakers,
		parser:   parser,
		window:   worker.NewHourlyWindow(cfg.MaxPerHour),
	}
}

func (a *RSSAdapter) Tag() string  { return "rss" }
func (a *RSSAdapter) Name() string { return "RSS Feed" }

// Initialize verifies at least one feed is configured.
func (a *RSSAdapter) Initialize(ctx context.Context) error {
	if len(a.cfg.Feeds) == 0 {
		return fmt.Errorf("rss: no feeds configured")
	}
	return nil
}

// Fetch parses each configured feed. A feed that fails to parse is recorded
// and skipped.
func (a *RSSAdapter) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	result := &FetchResult{}

	for i, feedURL := range a.cfg.Feeds {
		if i > 0 && a.cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(a.cfg.RequestDelay):
			}
		}
		if !a.window.Hit() {
			return result, ErrRateLimited
		}

		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			recordItemError(result, feedURL, err)
			continue
		}

		for _, item := range feed.Items {
			if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
				return result, nil
			}

			content := item.Content
			if content == "" {
				content = item.Description
			}
			text := StripHTML(content)
			if text == "" {
				recordItemError(result, item.Link, fmt.Errorf("empty item body"))
				continue
			}

			hint := ""
			if item.Author != nil {
				hint = item.Author.Name
			}
			if hint == "" {
				hint = feed.Title
			}

			result.Items = append(result.Items, Candidate{
				ExternalID:  item.GUID,
				Title:       item.Title,
				Date:        rssDate(item),
				URL:         item.Link,
				Text:        text,
				SpeakerHint: hint,
				Metadata: map[string]any{
					"feedUrl":   feedURL,
					"feedTitle": feed.Title,
				},
			})
		}
	}

	return result, nil
}

func rssDate(item *gofeed.Item) string {
	var t *time.Time
	if item.PublishedParsed != nil {
		t = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		t = item.UpdatedParsed
	}
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
