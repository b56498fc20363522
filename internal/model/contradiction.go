package model

// ContradictionKind names the detector that produced a contradiction.
type ContradictionKind string

const (
	KindDenial         ContradictionKind = "denial"
	KindPolicyReversal ContradictionKind = "policy-reversal"
	KindFactualFlip    ContradictionKind = "factual-flip"
)

// QuoteRef is a durable copy of the fields a contradiction needs from a
// quote. The referenced quote may be re-derived on the next run; the copy
// keeps the record readable on its own.
type QuoteRef struct {
	QuoteID string `json:"quoteId"`
	Text    string `json:"text"`
	Date    string `json:"date,omitempty"`
	Source  string `json:"source,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Contradiction pairs two quotes by the same speaker asserted to conflict.
// The pair id is canonicalized with the smaller quote id first, so the same
// contradiction is never emitted twice regardless of discovery order.
type Contradiction struct {
	ID         string            `json:"id"`
	SpeakerID  string            `json:"speakerId"`
	Topic      string            `json:"topic,omitempty"`
	Kind       ContradictionKind `json:"kind"`
	Quote1     QuoteRef          `json:"quote1"`
	Quote2     QuoteRef          `json:"quote2"`
	Confidence float64           `json:"confidence"`
	Enabled    bool              `json:"enabled"`
	Context    string            `json:"context,omitempty"`
}
