package contradict

import (
	"testing"

	"github.com/rostrumlab/rostrum/internal/model"
)

func newTestFinder() *Finder {
	return NewFinder(model.ContradictConfig{MinConfidence: 0.3})
}

func quote(id, speakerID, text, date string, topics ...string) model.Quote {
	return model.Quote{
		ID:           id,
		TranscriptID: "t-" + id,
		SpeakerID:    speakerID,
		Text:         text,
		Date:         date,
		Topics:       topics,
	}
}

func TestFindDenial(t *testing.T) {
	quotes := []model.Quote{
		quote("q-a-1", "x", "I called them animals.", "2020-03-01"),
		quote("q-b-1", "x", "I never said they were animals.", "2022-06-15"),
	}

	found := newTestFinder().Find("x", quotes, nil)

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d: %+v", len(found), found)
	}
	c := found[0]
	if c.Kind != model.KindDenial {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Quote1.QuoteID != "q-a-1" || c.Quote2.QuoteID != "q-b-1" {
		t.Errorf("pair = %q/%q", c.Quote1.QuoteID, c.Quote2.QuoteID)
	}
	if c.Confidence < 0.5 {
		t.Errorf("Confidence = %v, want >= 0.5", c.Confidence)
	}
	if !c.Enabled {
		t.Error("Enabled must default to true")
	}
}

func TestDenialTemporalRule(t *testing.T) {
	// Denial dated before the statement it would deny: no contradiction.
	quotes := []model.Quote{
		quote("q-a-1", "x", "I never said they were animals.", "2020-01-01"),
		quote("q-b-1", "x", "I called them animals.", "2022-06-15"),
	}
	if found := newTestFinder().Find("x", quotes, nil); len(found) != 0 {
		t.Errorf("denial preceding the statement must not match: %+v", found)
	}

	// Missing date on either side: the pair is accepted.
	quotes[0].Date = ""
	if found := newTestFinder().Find("x", quotes, nil); len(found) != 1 {
		t.Errorf("missing date must be permissive, got %d", len(found))
	}
}

func TestDenialSubstringWithoutContentTokens(t *testing.T) {
	// The denied subject carries no content tokens, so similarity is zero;
	// the exact substring match still counts, at full confidence.
	quotes := []model.Quote{
		quote("q-a-1", "x", "My answer was no to it and it stays no to it.", "2025-05-01"),
		quote("q-b-1", "x", "That is wrong, I never said no to it.", "2025-05-03"),
	}

	found := newTestFinder().Find("x", quotes, nil)

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d: %+v", len(found), found)
	}
	c := found[0]
	if c.Kind != model.KindDenial {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", c.Confidence)
	}
}

func TestFindPolicyReversal(t *testing.T) {
	quotes := []model.Quote{
		quote("q-a-1", "x", "I support the tax cuts for the middle class.", "2021-01-01"),
		quote("q-b-1", "x", "I oppose the tax cuts for the middle class.", "2023-01-01"),
	}

	found := newTestFinder().Find("x", quotes, nil)

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d: %+v", len(found), found)
	}
	c := found[0]
	if c.Kind != model.KindPolicyReversal {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", c.Confidence)
	}
}

func TestFindAbsolutistFlip(t *testing.T) {
	quotes := []model.Quote{
		quote("q-a-1", "x", "This is the greatest economy in history.", "2021-01-01", "economy"),
		quote("q-b-1", "x", "This is the worst economy in history.", "2023-01-01", "economy"),
	}

	found := newTestFinder().Find("x", quotes, nil)

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d: %+v", len(found), found)
	}
	c := found[0]
	if c.Kind != model.KindFactualFlip {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", c.Confidence)
	}
	if c.Topic != "economy" {
		t.Errorf("Topic = %q", c.Topic)
	}
}

func TestNoCrossSpeakerContradictions(t *testing.T) {
	quotes := []model.Quote{
		quote("q-a-1", "x", "I support the tax cuts for the middle class.", "2021-01-01"),
		quote("q-b-1", "y", "I oppose the tax cuts for the middle class.", "2023-01-01"),
	}

	if found := newTestFinder().Find("x", quotes, nil); len(found) != 0 {
		t.Errorf("contradiction spans speakers: %+v", found)
	}
}

func TestPairIDCanonical(t *testing.T) {
	a := quote("q-a-1", "x", "I support the tax cuts for the middle class.", "")
	b := quote("q-b-1", "x", "I oppose the tax cuts for the middle class.", "")

	forward := newTestFinder().Find("x", []model.Quote{a, b}, nil)
	reverse := newTestFinder().Find("x", []model.Quote{b, a}, nil)

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("expected 1 contradiction each way, got %d/%d", len(forward), len(reverse))
	}
	if forward[0].ID != reverse[0].ID {
		t.Errorf("pair id depends on discovery order: %q vs %q", forward[0].ID, reverse[0].ID)
	}
	if forward[0].Quote1.QuoteID != "q-a-1" {
		t.Errorf("smaller quote id must come first, got %q", forward[0].Quote1.QuoteID)
	}
}

func TestQuoteRefCopiesSource(t *testing.T) {
	quotes := []model.Quote{
		quote("q-a-1", "x", "I called them animals.", "2020-03-01"),
		quote("q-b-1", "x", "I never said they were animals.", "2022-06-15"),
	}
	sources := map[string]model.Transcript{
		"t-q-a-1": {ID: "t-q-a-1", Source: "White House", SourceURL: "https://example.com/a"},
		"t-q-b-1": {ID: "t-q-b-1", Source: "RSS Feed", SourceURL: "https://example.com/b"},
	}

	found := newTestFinder().Find("x", quotes, sources)
	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d", len(found))
	}
	if found[0].Quote1.Source != "White House" || found[0].Quote2.URL != "https://example.com/b" {
		t.Errorf("quote refs missing source copies: %+v", found[0])
	}
}

func TestMinConfidenceFilter(t *testing.T) {
	f := NewFinder(model.ContradictConfig{MinConfidence: 0.6})

	quotes := []model.Quote{
		quote("q-a-1", "x", "This is the greatest economy in history.", "", "economy"),
		quote("q-b-1", "x", "This is the worst economy in history.", "", "economy"),
	}

	// The flip's fixed 0.5 confidence falls under the raised floor.
	if found := f.Find("x", quotes, nil); len(found) != 0 {
		t.Errorf("expected confidence filter to drop the flip: %+v", found)
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("the tax cuts help families", "tax cuts help nobody"); got <= 0.5 {
		t.Errorf("overlapping texts scored %v", got)
	}
	if got := Similarity("completely unrelated words", "other different phrasing"); got != 0 {
		t.Errorf("disjoint texts scored %v", got)
	}
	if got := Similarity("", "anything"); got != 0 {
		t.Errorf("empty text scored %v", got)
	}
}
