package source

import (
	"context"
	"fmt"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// LegislativeAdapter collects floor speeches, hearings, and legislation text
// from a legislative archive's search API. Queries are driven by the search
// terms configured per speaker.
type LegislativeAdapter struct {
	cfg      model.SourceConfig
	speakers []model.Speaker
	fetcher  *Fetcher
	window   *worker.HourlyWindow
}

// NewLegislativeAdapter creates the legislative-archive adapter.
func NewLegislativeAdapter(cfg model.SourceConfig, speakers []model.Speaker, fetcher *Fetcher) *LegislativeAdapter {
	return &LegislativeAdapter{
		cfg:      cfg,
		speakers: speakers,
		fetcher:  fetcher,
		window:   worker.NewHourlyWindow(cfg.MaxPerHour),
	}
}

func (a *LegislativeAdapter) Tag() string  { return "leg" }
func (a *LegislativeAdapter) Name() string { return "Legislative Archive" }

// Initialize verifies the credential and base URL are present.
func (a *LegislativeAdapter) Initialize(ctx context.Context) error {
	if a.cfg.BaseURL == "" {
		return fmt.Errorf("legislative: missing base URL")
	}
	if a.cfg.APIKey == "" {
		return fmt.Errorf("legislative: missing API key")
	}
	return nil
}

type legislativeSearchRequest struct {
	Query    string `json:"query"`
	PageSize int    `json:"pageSize"`
	Sort     string `json:"sort"`
}

type legislativeSearchResponse struct {
	Results []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Date  string `json:"date"`
		URL   string `json:"url"`
		Text  string `json:"text"`
		Type  string `json:"type"`
	} `json:"results"`
}

// Fetch searches the archive once per configured speaker search term.
func (a *LegislativeAdapter) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	result := &FetchResult{}
	seen := make(map[string]bool)

	for _, speaker := range a.speakers {
		for _, term := range speaker.SearchTerms {
			if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
				return result, nil
			}
			if !a.window.Hit() {
				return result, ErrRateLimited
			}

			req := legislativeSearchRequest{
				Query:    term,
				PageSize: opts.MaxItems,
				Sort:     "date desc",
			}

			var resp legislativeSearchResponse
			if err := a.fetcher.PostJSON(ctx, a.cfg.BaseURL+"/search", req, a.cfg.APIKey, &resp); err != nil {
				if err == ErrRateLimited {
					return result, err
				}
				recordItemError(result, "search "+term, err)
				continue
			}

			for _, item := range resp.Results {
				if item.ID == "" || seen[item.ID] {
					continue
				}
				seen[item.ID] = true

				if item.Text == "" {
					recordItemError(result, "result "+item.ID, fmt.Errorf("empty transcript text"))
					continue
				}

				result.Items = append(result.Items, Candidate{
					ExternalID:  item.ID,
					Title:       item.Title,
					Date:        ParseDate(item.Date),
					URL:         item.URL,
					Text:        item.Text,
					EventType:   legislativeEventType(item.Type),
					SpeakerHint: speaker.Name,
					Metadata: map[string]any{
						"searchTerm": term,
						"recordType": item.Type,
					},
				})

				if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
					break
				}
			}
		}
	}

	return result, nil
}

// legislativeEventType maps archive record types onto the event vocabulary.
func legislativeEventType(recordType string) model.EventType {
	switch recordType {
	case "hearing", "testimony":
		return model.EventTestimony
	case "bill", "resolution", "legislation":
		return model.EventLegislation
	case "statement":
		return model.EventStatement
	default:
		return model.EventFloorSpeech
	}
}
