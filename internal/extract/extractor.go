package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

// Extractor scores transcript sentences and emits notable quotes. It is
// pure CPU: no I/O, and identical input always yields identical output.
type Extractor struct {
	cfg model.ExtractConfig
}

// NewExtractor creates an extractor with the given tuning.
func NewExtractor(cfg model.ExtractConfig) *Extractor {
	if cfg.MinScore <= 0 {
		cfg.MinScore = 3
	}
	if cfg.MaxQuotes <= 0 {
		cfg.MaxQuotes = 50
	}
	return &Extractor{cfg: cfg}
}

type scoredSentence struct {
	Sentence
	index   int
	score   int
	reasons []string
	matched map[string][]string
}

// Extract segments the transcript, scores each sentence against the pattern
// families, and returns the notable quotes in text order. Quote ids are a
// function of (transcript id, start, end), so re-extraction is idempotent.
func (e *Extractor) Extract(t model.Transcript) []model.Quote {
	sentences := SplitSentences(t.FullText)

	var accepted []scoredSentence
	for i, s := range sentences {
		scored := scoreSentence(s)
		scored.index = i
		if scored.score >= e.cfg.MinScore {
			accepted = append(accepted, scored)
		}
	}

	// Top quotes by score; the sort is stable so equal scores keep text order.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].score > accepted[j].score
	})
	if len(accepted) > e.cfg.MaxQuotes {
		accepted = accepted[:e.cfg.MaxQuotes]
	}

	// Back to text order for context assembly and merging.
	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})

	quotes := make([]model.Quote, 0, len(accepted))
	for _, s := range accepted {
		quotes = append(quotes, model.Quote{
			ID:           quoteID(t.ID, s.Start, s.End),
			TranscriptID: t.ID,
			SpeakerID:    t.SpeakerID,
			Text:         s.Text,
			Start:        s.Start,
			End:          s.End,
			Score:        s.score,
			Reasons:      s.reasons,
			MatchedTerms: s.matched,
			Context:      e.context(sentences, s.index),
			Date:         t.Date,
			Topics:       []string{},
			Rhetoric:     []string{},
		})
	}

	if e.cfg.MergeThreshold > 0 {
		quotes = mergeAdjacent(quotes, e.cfg.MergeThreshold)
	}

	return quotes
}

// scoreSentence computes the notability score and tag set for one sentence.
// Each family contributes distinct-match-count times its weight; sentences
// of 10 to 50 words get a one-point length bonus.
func scoreSentence(s Sentence) scoredSentence {
	lower := strings.ToLower(s.Text)

	scored := scoredSentence{Sentence: s}
	for _, family := range patternFamilies {
		matched := matchTerms(lower, family.terms)
		if len(matched) == 0 {
			continue
		}
		scored.score += len(matched) * family.weight
		scored.reasons = append(scored.reasons, family.reason)
		if scored.matched == nil {
			scored.matched = make(map[string][]string)
		}
		scored.matched[family.reason] = matched
	}

	if scored.score > 0 {
		if words := len(strings.Fields(s.Text)); words >= 10 && words <= 50 {
			scored.score++
		}
	}

	return scored
}

// context joins up to ContextSentences neighbors on each side of the quoted
// sentence with single spaces.
func (e *Extractor) context(sentences []Sentence, index int) string {
	n := e.cfg.ContextSentences
	if n <= 0 {
		return ""
	}

	lo := index - n
	if lo < 0 {
		lo = 0
	}
	hi := index + n
	if hi > len(sentences)-1 {
		hi = len(sentences) - 1
	}

	parts := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		parts = append(parts, sentences[i].Text)
	}
	return strings.Join(parts, " ")
}

// mergeAdjacent combines consecutive quotes whose character gap is at most
// threshold: texts join with a space, the span extends, the higher score
// wins, and tag sets union.
func mergeAdjacent(quotes []model.Quote, threshold int) []model.Quote {
	if len(quotes) < 2 {
		return quotes
	}

	merged := []model.Quote{quotes[0]}
	for _, q := range quotes[1:] {
		last := &merged[len(merged)-1]
		if q.Start-last.End > threshold {
			merged = append(merged, q)
			continue
		}

		last.Text = last.Text + " " + q.Text
		last.End = q.End
		if q.Score > last.Score {
			last.Score = q.Score
		}
		last.Reasons = unionStrings(last.Reasons, q.Reasons)
		for reason, terms := range q.MatchedTerms {
			if last.MatchedTerms == nil {
				last.MatchedTerms = make(map[string][]string)
			}
			last.MatchedTerms[reason] = unionStrings(last.MatchedTerms[reason], terms)
		}
		last.ID = quoteID(last.TranscriptID, last.Start, last.End)
	}

	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func quoteID(transcriptID string, start, end int) string {
	return fmt.Sprintf("q-%s-%d-%d", transcriptID, start, end)
}
