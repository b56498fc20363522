package model

// Speaker is an identity record. The id is immutable once assigned; the
// display name and roles may change between corpus revisions.
type Speaker struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Roles    []string          `json:"roles,omitempty"`
	Party    string            `json:"party,omitempty"`
	External map[string]string `json:"external,omitempty"` // e.g. bioguide id, channel ids
	Color    string            `json:"color,omitempty"`    // 6-digit hex, default #ffffff
	Category string            `json:"category,omitempty"` // coarse grouping for the UI

	// SearchTerms and MatchPatterns drive source-side attribution: search
	// terms seed provider queries, match patterns are matched against
	// transcript text when the provider gives no structured speaker.
	SearchTerms   []string `json:"searchTerms,omitempty"`
	MatchPatterns []string `json:"matchPatterns,omitempty"`
}

// DefaultSpeakerColor is used when a speaker record carries no color.
const DefaultSpeakerColor = "#ffffff"

// CategoryKind distinguishes the three label vocabularies.
type CategoryKind string

const (
	CategoryTopic     CategoryKind = "topic"
	CategoryRhetoric  CategoryKind = "rhetoric"
	CategoryFactCheck CategoryKind = "factcheck"
)

// Category is one entry of the shared label vocabulary. Loaded once and
// treated as read-only at pipeline run time.
type Category struct {
	ID       string       `json:"id"`
	Kind     CategoryKind `json:"kind"`
	Label    string       `json:"label"`
	Keywords []string     `json:"keywords,omitempty"` // topic/rhetoric only
	Color    string       `json:"color,omitempty"`
	Severity Severity     `json:"severity,omitempty"` // rhetoric only
}

// Severity grades rhetoric labels. The empty value means unset.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so the classifier can pick the most serious match.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more serious of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
