package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// SocialAdapter collects posts from a social-media archive service, one
// archive per configured handle. Handles are matched to speakers through
// the "social" key of the speaker's external cross-references.
type SocialAdapter struct {
	cfg      model.SourceConfig
	speakers []model.Speaker
	fetcher  *Fetcher
	window   *worker.HourlyWindow
}

// NewSocialAdapter creates the social-archive adapter.
func NewSocialAdapter(cfg model.SourceConfig, speakers []model.Speaker, fetcher *Fetcher) *SocialAdapter {
	return &SocialAdapter{
		cfg:      cfg,
		speakers: speakers,
		fetcher:  fetcher,
		window:   worker.NewHourlyWindow(cfg.MaxPerHour),
	}
}

func (a *SocialAdapter) Tag() string  { return "soc" }
func (a *SocialAdapter) Name() string { return "Social Archive" }

// Initialize verifies the adapter is usable.
func (a *SocialAdapter) Initialize(ctx context.Context) error {
	if a.cfg.BaseURL == "" {
		return fmt.Errorf("social: missing base URL")
	}
	if len(a.cfg.Handles) == 0 {
		return fmt.Errorf("social: no handles configured")
	}
	return nil
}

type socialArchive struct {
	Posts []struct {
		ID   string `json:"id"`
		Date string `json:"date"`
		Text string `json:"text"`
		URL  string `json:"url"`
	} `json:"posts"`
}

// Fetch pulls each handle's archive. Every post becomes one social-media
// transcript candidate.
func (a *SocialAdapter) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	result := &FetchResult{}

	for _, handle := range a.cfg.Handles {
		if !a.window.Hit() {
			return result, ErrRateLimited
		}

		archiveURL := fmt.Sprintf("%s/archive/%s.json", a.cfg.BaseURL, url.PathEscape(handle))
		if a.cfg.APIKey != "" {
			archiveURL += "?key=" + url.QueryEscape(a.cfg.APIKey)
		}

		var archive socialArchive
		if err := a.fetcher.GetJSON(ctx, archiveURL, &archive); err != nil {
			if err == ErrRateLimited {
				return result, err
			}
			recordItemError(result, "handle "+handle, err)
			continue
		}

		hint := a.handleSpeaker(handle)

		for _, post := range archive.Posts {
			if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
				return result, nil
			}
			if post.Text == "" {
				recordItemError(result, "post "+post.ID, fmt.Errorf("empty post text"))
				continue
			}

			result.Items = append(result.Items, Candidate{
				ExternalID:  post.ID,
				Date:        ParseDate(post.Date),
				URL:         post.URL,
				Text:        post.Text,
				EventType:   model.EventSocialMedia,
				SpeakerHint: hint,
				Metadata:    map[string]any{"handle": handle},
			})
		}
	}

	return result, nil
}

// handleSpeaker resolves a handle to a speaker name via the speaker table's
// external cross-references; the raw handle is the fallback hint.
func (a *SocialAdapter) handleSpeaker(handle string) string {
	for _, s := range a.speakers {
		if s.External["social"] == handle || s.External["social"] == "@"+handle {
			return s.Name
		}
	}
	return handle
}
