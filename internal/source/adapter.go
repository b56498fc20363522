package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rostrumlab/rostrum/internal/model"
)

// ErrRateLimited signals that an adapter's hourly window is saturated or the
// provider returned 429. The collector treats it as non-fatal and moves on
// to the next adapter.
var ErrRateLimited = errors.New("rate limited")

// Candidate is one uniform transcript candidate as returned by an adapter,
// before speaker resolution and id assignment.
type Candidate struct {
	ExternalID  string          `json:"externalId,omitempty"`
	Title       string          `json:"title,omitempty"`
	Date        string          `json:"date,omitempty"` // YYYY-MM-DD
	URL         string          `json:"url,omitempty"`
	Text        string          `json:"text"`
	EventType   model.EventType `json:"eventType,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	SpeakerHint string          `json:"speakerHint,omitempty"`
}

// FetchOptions bounds one fetch call.
type FetchOptions struct {
	MaxItems int
}

// FetchResult carries the candidates an adapter produced plus any per-item
// errors. Adapters never fail the whole fetch over a single bad item.
type FetchResult struct {
	Items  []Candidate
	Errors []error
}

// Adapter turns one external provider into uniform transcript candidates.
// Fetch returns ErrRateLimited when the adapter's hourly window is
// saturated; any candidates collected before saturation are still returned.
type Adapter interface {
	// Tag is the short stable name used for ids and cache partitioning.
	Tag() string

	// Name is the human-readable source name stored on transcripts.
	Name() string

	// Initialize performs idempotent setup (credential check, warm cache).
	Initialize(ctx context.Context) error

	// Fetch returns uniform candidates.
	Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error)
}

// TranscriptID derives the stable transcript id for a candidate. When the
// provider supplies an external id the id is "<tag>-<externalId>"; otherwise
// it is content-addressed from the URL, or from title+date when there is no
// URL either. Re-fetching the same upstream entity always yields the same id.
func TranscriptID(tag string, c Candidate) string {
	if c.ExternalID != "" {
		return tag + "-" + c.ExternalID
	}

	seed := c.URL
	if seed == "" {
		seed = c.Title + c.Date
	}

	sum := sha1.Sum([]byte(seed))
	return tag + "-" + hex.EncodeToString(sum[:])[:16]
}

// ToTranscript produces the full transcript record for a candidate:
// stable id, resolved speaker, inferred role and event type.
func ToTranscript(tag, sourceName string, c Candidate, speakers []model.Speaker) model.Transcript {
	speakerID := ExtractSpeakerID(c.SpeakerHint, speakers)

	speakerName := ""
	role := ""
	if speakerID != "" {
		for _, s := range speakers {
			if s.ID == speakerID {
				speakerName = s.Name
				if len(s.Roles) > 0 {
					role = s.Roles[0]
				}
				break
			}
		}
	} else {
		speakerName = c.SpeakerHint
		role = InferRole(c.SpeakerHint)
	}

	eventType := c.EventType
	if eventType == "" {
		eventType = InferEventType(c.Title)
	}

	return model.Transcript{
		ID:              TranscriptID(tag, c),
		SpeakerID:       speakerID,
		Speaker:         speakerName,
		Role:            role,
		Date:            c.Date,
		Source:          sourceName,
		SourceURL:       c.URL,
		EventType:       eventType,
		Title:           c.Title,
		FullText:        c.Text,
		Metadata:        c.Metadata,
		ExtractedQuotes: []model.Quote{},
	}
}

// recordItemError appends a wrapped per-item error to a fetch result.
func recordItemError(result *FetchResult, item string, err error) {
	result.Errors = append(result.Errors, fmt.Errorf("%s: %w", item, err))
}
