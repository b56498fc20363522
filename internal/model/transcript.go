package model

// EventType classifies the kind of event a transcript was delivered at.
type EventType string

const (
	EventSpeech          EventType = "speech"
	EventBriefing        EventType = "briefing"
	EventStatement       EventType = "statement"
	EventExecutiveAction EventType = "executive-action"
	EventRally           EventType = "rally"
	EventInterview       EventType = "interview"
	EventTestimony       EventType = "testimony"
	EventDebate          EventType = "debate"
	EventFloorSpeech     EventType = "floor-speech"
	EventSocialMedia     EventType = "social-media"
	EventLegislation     EventType = "legislation"
)

// Transcript is one utterance-session as delivered by a source. FullText is
// immutable for a given id; a re-fetch that changes only metadata updates
// only metadata.
type Transcript struct {
	ID        string    `json:"id"`
	SpeakerID string    `json:"speakerId"` // empty when attribution failed
	Speaker   string    `json:"speaker,omitempty"`
	Role      string    `json:"role,omitempty"`
	Date      string    `json:"date,omitempty"` // YYYY-MM-DD
	Source    string    `json:"source"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	EventType EventType `json:"eventType"`
	Title     string    `json:"title,omitempty"`
	FullText  string    `json:"fullText"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// ExtractedQuotes holds the derived quotes inline, as downstream
	// consumers read them.
	ExtractedQuotes []Quote `json:"extractedQuotes"`
}

// Extraction reasons tag which pattern family made a sentence notable.
const (
	ReasonSuperlative       = "superlative"
	ReasonGroupReference    = "group-reference"
	ReasonPolicyDeclaration = "policy-declaration"
	ReasonClaim             = "claim"
)

// Quote is a notable substring of a transcript. (TranscriptID, Start, End)
// uniquely identifies a quote and the id is a function of that triple, so
// re-extraction is idempotent.
type Quote struct {
	ID           string              `json:"id"`
	TranscriptID string              `json:"transcriptId"`
	SpeakerID    string              `json:"speakerId"`
	Text         string              `json:"text"`
	Start        int                 `json:"start"` // character offset in FullText
	End          int                 `json:"end"`
	Score        int                 `json:"score"`
	Reasons      []string            `json:"reasons"`
	MatchedTerms map[string][]string `json:"matchedTerms,omitempty"` // keyed by reason
	Context      string              `json:"context,omitempty"`

	Topics    []string   `json:"topics"`
	Rhetoric  []string   `json:"rhetoric"`
	Severity  Severity   `json:"severity,omitempty"`
	Date      string     `json:"date,omitempty"` // copied from the transcript
	FactCheck *FactCheck `json:"factCheck,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"` // preserved across re-runs
}

// FactCheckRating is the verdict vocabulary of the resolver.
type FactCheckRating string

const (
	RatingFalse       FactCheckRating = "false"
	RatingMostlyFalse FactCheckRating = "mostly-false"
	RatingHalfTrue    FactCheckRating = "half-true"
	RatingMostlyTrue  FactCheckRating = "mostly-true"
	RatingTrue        FactCheckRating = "true"
	RatingUnverified  FactCheckRating = "unverified"
)

// FactCheck annotates a quote with a claim-review verdict.
type FactCheck struct {
	Rating       FactCheckRating `json:"rating"`
	Source       string          `json:"source,omitempty"`
	SourceURL    string          `json:"sourceUrl,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	CheckedDate  string          `json:"checkedDate,omitempty"`
	MatchedTopic string          `json:"matchedTopic,omitempty"`
}
