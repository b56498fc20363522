package source

import (
	"strings"
	"time"

	"github.com/rostrumlab/rostrum/internal/model"
)

// InferEventType guesses the event type from title keywords. Order matters:
// "interview at a rally" is an interview, not a rally.
func InferEventType(title string) model.EventType {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "interview"):
		return model.EventInterview
	case strings.Contains(lower, "rally") || strings.Contains(lower, "campaign"):
		return model.EventRally
	case strings.Contains(lower, "speech") || strings.Contains(lower, "address"):
		return model.EventSpeech
	case strings.Contains(lower, "testimony") || strings.Contains(lower, "hearing"):
		return model.EventTestimony
	case strings.Contains(lower, "briefing") || strings.Contains(lower, "press"):
		return model.EventBriefing
	case strings.Contains(lower, "debate"):
		return model.EventDebate
	}

	return model.EventSpeech
}

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"January 2 2006",
	time.RFC3339,
}

// ParseDate normalizes a provider date string to YYYY-MM-DD. Returns "" when
// the string matches no known layout; transcripts without a date sort last.
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// ISO timestamps only need the date part.
	if idx := strings.IndexByte(s, 'T'); idx == 10 {
		if t, err := time.Parse("2006-01-02", s[:idx]); err == nil {
			return t.Format("2006-01-02")
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}
