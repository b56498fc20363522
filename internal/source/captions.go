package source

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
	"github.com/rostrumlab/rostrum/internal/worker"
)

// CaptionsAdapter collects rally speeches and interviews from a video
// platform's caption tracks. Videos are discovered per speaker through the
// channel ids in the speaker table.
type CaptionsAdapter struct {
	cfg      model.SourceConfig
	speakers []model.Speaker
	fetcher  *Fetcher
	window   *worker.HourlyWindow
}

// NewCaptionsAdapter creates the video-captions adapter.
func NewCaptionsAdapter(cfg model.SourceConfig, speakers []model.Speaker, fetcher *Fetcher) *CaptionsAdapter {
	return &CaptionsAdapter{
		cfg:      cfg,
		speakers: speakers,
		fetcher:  fetcher,
		window:   worker.NewHourlyWindow(cfg.MaxPerHour),
	}
}

func (a *CaptionsAdapter) Tag() string  { return "yt" }
func (a *CaptionsAdapter) Name() string { return "Video Captions" }

// Initialize verifies the credential is present. Safe to call repeatedly.
func (a *CaptionsAdapter) Initialize(ctx context.Context) error {
	if a.cfg.APIKey == "" {
		return fmt.Errorf("captions: missing API key")
	}
	return nil
}

type videoListing struct {
	Items []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
		URL         string `json:"url"`
	} `json:"items"`
}

// Fetch lists recent videos per configured channel and pulls the caption
// track for each. A failed video goes on the errors list; the rest continue.
func (a *CaptionsAdapter) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	result := &FetchResult{}

	for _, speaker := range a.speakers {
		channelID := speaker.External["channelId"]
		if channelID == "" {
			continue
		}

		if !a.window.Hit() {
			return result, ErrRateLimited
		}

		listURL := fmt.Sprintf("%s/search?channel=%s&max=%d&key=%s",
			a.cfg.BaseURL, url.QueryEscape(channelID), opts.MaxItems, url.QueryEscape(a.cfg.APIKey))

		var listing videoListing
		if err := a.fetcher.GetJSON(ctx, listURL, &listing); err != nil {
			if err == ErrRateLimited {
				return result, err
			}
			recordItemError(result, "channel "+channelID, err)
			continue
		}

		for _, video := range listing.Items {
			if opts.MaxItems > 0 && len(result.Items) >= opts.MaxItems {
				return result, nil
			}
			if !a.window.Hit() {
				return result, ErrRateLimited
			}

			captionURL := fmt.Sprintf("%s/captions?video=%s&key=%s",
				a.cfg.BaseURL, url.QueryEscape(video.ID), url.QueryEscape(a.cfg.APIKey))

			body, err := a.fetcher.Get(ctx, captionURL)
			if err != nil {
				if err == ErrRateLimited {
					return result, err
				}
				recordItemError(result, "video "+video.ID, err)
				continue
			}

			segments, err := ParseCaptions(body)
			if err != nil {
				recordItemError(result, "video "+video.ID, err)
				continue
			}
			if len(segments) == 0 {
				continue
			}

			result.Items = append(result.Items, Candidate{
				ExternalID:  video.ID,
				Title:       video.Title,
				Date:        ParseDate(video.PublishedAt),
				URL:         video.URL,
				Text:        JoinSegments(segments),
				SpeakerHint: speaker.Name,
				Metadata: map[string]any{
					"channelId": channelID,
					"segments":  segments,
				},
			})
		}
	}

	return result, nil
}

// CaptionSegment is one timed caption line, preserved in transcript
// metadata alongside the concatenated full text.
type CaptionSegment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

type timedTextXML struct {
	Texts []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Body     string  `xml:",chardata"`
	} `xml:"text"`
}

type captionEventsJSON struct {
	Events []struct {
		StartMs    float64 `json:"tStartMs"`
		DurationMs float64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseCaptions accepts both caption shapes the platform serves: timed XML
// (`<transcript><text start dur>`) and the JSON events form. Entities are
// decoded per segment.
func ParseCaptions(data []byte) ([]CaptionSegment, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var doc captionEventsJSON
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			return nil, fmt.Errorf("parse caption JSON: %w", err)
		}

		var segments []CaptionSegment
		for _, ev := range doc.Events {
			var b strings.Builder
			for _, seg := range ev.Segs {
				b.WriteString(seg.UTF8)
			}
			text := strings.TrimSpace(DecodeEntities(b.String()))
			if text == "" {
				continue
			}
			segments = append(segments, CaptionSegment{
				Start:    ev.StartMs / 1000,
				Duration: ev.DurationMs / 1000,
				Text:     text,
			})
		}
		return segments, nil
	}

	var doc timedTextXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse caption XML: %w", err)
	}

	var segments []CaptionSegment
	for _, t := range doc.Texts {
		text := strings.TrimSpace(DecodeEntities(t.Body))
		if text == "" {
			continue
		}
		segments = append(segments, CaptionSegment{
			Start:    t.Start,
			Duration: t.Duration,
			Text:     text,
		})
	}
	return segments, nil
}

// JoinSegments concatenates segment texts with single spaces into the full
// transcript text.
func JoinSegments(segments []CaptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
