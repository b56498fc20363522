package model

// SchemaVersion identifies the corpus document layout.
const SchemaVersion = "1.0.0"

// Schema is the self-describing header of the corpus document.
type Schema struct {
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Corpus is the canonical store of pipeline results. Contradictions are
// keyed by speaker id, matching how they are computed and how the CRUD
// server reads them.
type Corpus struct {
	Schema         Schema                     `json:"_schema"`
	Transcripts    []Transcript               `json:"transcripts"`
	Contradictions map[string][]Contradiction `json:"contradictions"`
	Stats          Stats                      `json:"stats"`
	LastUpdated    string                     `json:"lastUpdated"`
}

// NewCorpus returns an empty corpus with the schema header filled in.
func NewCorpus() *Corpus {
	return &Corpus{
		Schema: Schema{
			Version:     SchemaVersion,
			Description: "Political speech transcripts database",
		},
		Transcripts:    []Transcript{},
		Contradictions: map[string][]Contradiction{},
	}
}

// Stats summarizes the corpus for quick downstream display.
type Stats struct {
	TotalTranscripts  int            `json:"totalTranscripts"`
	TotalQuotes       int            `json:"totalQuotes"`
	HighSeverityCount int            `json:"highSeverityCount"`
	BySpeaker         map[string]int `json:"bySpeaker"`
	BySource          map[string]int `json:"bySource"`
	ByEventType       map[string]int `json:"byEventType"`
	ByTopic           map[string]int `json:"byTopic"`
	ByRhetoric        map[string]int `json:"byRhetoric"`
	ByFactCheckRating map[string]int `json:"byFactCheckRating"`
	ByDate            map[string]int `json:"byDate"`
}
