// Package contradict cross-scans one speaker's quotes for denials, policy
// reversals, and absolutist flips. Detection is pure CPU over the enriched
// quote set; results are deterministic for a given input.
package contradict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

var denialPhrases = []string{
	"i never said",
	"i didn't say",
	"i did not say",
	"i never claimed",
	"i never called",
	"that's not what i said",
	"i never told",
	"i've never said",
	"i have never said",
	"i wouldn't say",
	"i would never say",
}

// stance is one side of a policy position.
type stance int

const (
	stanceNone stance = iota
	stanceSupport
	stanceOppose
	stanceWillDo
	stanceWillNot
)

// stancePatterns are checked in order; negated forms come before the plain
// forms they contain ("will not" before "will", "don't support" before
// "support").
var stancePatterns = []struct {
	phrase string
	kind   stance
}{
	{"don't support", stanceOppose},
	{"do not support", stanceOppose},
	{"am against", stanceOppose},
	{"oppose", stanceOppose},
	{"reject", stanceOppose},
	{"refuse", stanceOppose},

	{"support", stanceSupport},
	{"am for", stanceSupport},
	{"believe in", stanceSupport},
	{"back", stanceSupport},
	{"endorse", stanceSupport},

	{"will not", stanceWillNot},
	{"won't", stanceWillNot},
	{"cannot", stanceWillNot},
	{"should not", stanceWillNot},
	{"must not", stanceWillNot},

	{"will", stanceWillDo},
	{"must", stanceWillDo},
	{"need to", stanceWillDo},
	{"should", stanceWillDo},
	{"are going to", stanceWillDo},
}

var (
	positiveAbsolutes = []string{"best", "greatest", "always", "all", "everyone"}
	negativeAbsolutes = []string{"worst", "never", "none", "no one"}
)

// Finder runs the three contradiction detectors over one speaker's quotes.
type Finder struct {
	minConfidence float64
}

// NewFinder creates a finder with the given confidence floor.
func NewFinder(cfg model.ContradictConfig) *Finder {
	minConfidence := cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.3
	}
	return &Finder{minConfidence: minConfidence}
}

// Find scans the quotes attributed to one speaker. Quotes belonging to other
// speakers are ignored, so a contradiction can never span speakers. Results
// are filtered by confidence, deduplicated on the canonical pair id, and
// sorted by descending confidence.
func (f *Finder) Find(speakerID string, quotes []model.Quote, sources map[string]model.Transcript) []model.Contradiction {
	var own []model.Quote
	for _, q := range quotes {
		if q.SpeakerID == speakerID && q.Text != "" {
			own = append(own, q)
		}
	}
	if len(own) < 2 {
		return nil
	}

	var found []model.Contradiction
	found = append(found, f.findDenials(speakerID, own, sources)...)
	found = append(found, f.findReversals(speakerID, own, sources)...)
	found = append(found, f.findFlips(speakerID, own, sources)...)

	seen := make(map[string]bool)
	kept := found[:0]
	for _, c := range found {
		if c.Confidence < f.minConfidence || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	return kept
}

// findDenials pairs each denial quote with earlier quotes containing the
// denied subject. When both dates are known the denial must not precede the
// statement it denies; with a missing date the pair is accepted as is.
func (f *Finder) findDenials(speakerID string, quotes []model.Quote, sources map[string]model.Transcript) []model.Contradiction {
	var out []model.Contradiction

	for _, denial := range quotes {
		subject := deniedSubject(denial.Text)
		if subject == "" {
			continue
		}

		for _, q := range quotes {
			if q.ID == denial.ID {
				continue
			}
			if denial.Date != "" && q.Date != "" && denial.Date < q.Date {
				continue
			}

			similarity := Similarity(subject, q.Text)
			if !strings.Contains(strings.ToLower(q.Text), subject) && similarity <= 0.5 {
				continue
			}
			confidence := similarity
			if confidence == 0 {
				confidence = 1 // exact substring of a subject with no content tokens
			}

			out = append(out, f.build(speakerID, q, denial, model.KindDenial, "", confidence,
				fmt.Sprintf("denied saying %q", subject), sources))
		}
	}

	return out
}

// deniedSubject extracts what a denial quote denies: the text after the
// denial phrase up to the next sentence terminator, capped at 100
// characters, lowercased.
func deniedSubject(text string) string {
	lower := strings.ToLower(text)

	for _, phrase := range denialPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}

		rest := lower[idx+len(phrase):]
		if end := strings.IndexAny(rest, ".!?"); end >= 0 {
			rest = rest[:end]
		}
		if len(rest) > 100 {
			rest = rest[:100]
		}
		return strings.TrimSpace(strings.TrimLeft(rest, " ,:;"))
	}

	return ""
}

// findReversals groups stance-bearing quotes by subject and pairs every
// affirmative stance with every negative stance on the same subject.
func (f *Finder) findReversals(speakerID string, quotes []model.Quote, sources map[string]model.Transcript) []model.Contradiction {
	type stancedQuote struct {
		quote model.Quote
		kind  stance
	}
	bySubject := make(map[string][]stancedQuote)
	var subjects []string

	for _, q := range quotes {
		kind, subject := quoteStance(q.Text)
		if kind == stanceNone || subject == "" {
			continue
		}
		if _, ok := bySubject[subject]; !ok {
			subjects = append(subjects, subject)
		}
		bySubject[subject] = append(bySubject[subject], stancedQuote{quote: q, kind: kind})
	}

	var out []model.Contradiction
	for _, subject := range subjects {
		group := bySubject[subject]
		for _, a := range group {
			if a.kind != stanceSupport && a.kind != stanceWillDo {
				continue
			}
			for _, b := range group {
				if b.kind != stanceOppose && b.kind != stanceWillNot {
					continue
				}
				out = append(out, f.build(speakerID, a.quote, b.quote, model.KindPolicyReversal,
					"", 0.7, fmt.Sprintf("opposing stances on %q", subject), sources))
			}
		}
	}

	return out
}

// quoteStance finds the first stance phrase in the text and extracts its
// subject: the text after the phrase up to the next sentence or comma
// terminator, capped at 50 characters.
func quoteStance(text string) (stance, string) {
	lower := strings.ToLower(text)

	for _, p := range stancePatterns {
		idx := phraseIndex(lower, p.phrase)
		if idx < 0 {
			continue
		}

		rest := lower[idx+len(p.phrase):]
		if end := strings.IndexAny(rest, ".!?,"); end >= 0 {
			rest = rest[:end]
		}
		if len(rest) > 50 {
			rest = rest[:50]
		}
		subject := strings.TrimSpace(rest)
		if subject == "" {
			return stanceNone, ""
		}
		return p.kind, subject
	}

	return stanceNone, ""
}

// phraseIndex locates a phrase at word boundaries, so "back" does not fire
// inside "backfire" and "will" does not fire inside "goodwill".
func phraseIndex(s, phrase string) int {
	for from := 0; ; {
		idx := strings.Index(s[from:], phrase)
		if idx < 0 {
			return -1
		}
		idx += from

		beforeOK := idx == 0 || !isWordByte(s[idx-1])
		afterIdx := idx + len(phrase)
		afterOK := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if beforeOK && afterOK {
			return idx
		}

		from = idx + 1
		if from >= len(s) {
			return -1
		}
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// findFlips pairs quotes on the same topic where one carries a positive
// absolutist marker and the other a negative one.
func (f *Finder) findFlips(speakerID string, quotes []model.Quote, sources map[string]model.Transcript) []model.Contradiction {
	var out []model.Contradiction

	for i := 0; i < len(quotes); i++ {
		for j := i + 1; j < len(quotes); j++ {
			a, b := quotes[i], quotes[j]

			topic := sharedTopic(a, b)
			if topic == "" && Similarity(a.Text, b.Text) <= 0.3 {
				continue
			}

			aPos, aNeg := absolutes(a.Text)
			bPos, bNeg := absolutes(b.Text)
			if !(aPos || aNeg) || !(bPos || bNeg) {
				continue
			}
			if !((aPos && bNeg) || (aNeg && bPos)) {
				continue
			}

			out = append(out, f.build(speakerID, a, b, model.KindFactualFlip, topic, 0.5,
				"absolutist claims in opposite directions", sources))
		}
	}

	return out
}

func sharedTopic(a, b model.Quote) string {
	for _, t := range a.Topics {
		for _, u := range b.Topics {
			if t == u {
				return t
			}
		}
	}
	return ""
}

func absolutes(text string) (positive, negative bool) {
	lower := strings.ToLower(text)
	for _, m := range positiveAbsolutes {
		if phraseIndex(lower, m) >= 0 {
			positive = true
			break
		}
	}
	for _, m := range negativeAbsolutes {
		if phraseIndex(lower, m) >= 0 {
			negative = true
			break
		}
	}
	return positive, negative
}

// build assembles one contradiction with the canonical pair id: the quote
// with the smaller id is always quote1, so discovery order never changes
// the record.
func (f *Finder) build(speakerID string, a, b model.Quote, kind model.ContradictionKind,
	topic string, confidence float64, context string, sources map[string]model.Transcript) model.Contradiction {

	if b.ID < a.ID {
		a, b = b, a
	}

	return model.Contradiction{
		ID:         fmt.Sprintf("c-%s-%s", a.ID, b.ID),
		SpeakerID:  speakerID,
		Topic:      topic,
		Kind:       kind,
		Quote1:     quoteRef(a, sources),
		Quote2:     quoteRef(b, sources),
		Confidence: confidence,
		Enabled:    true,
		Context:    context,
	}
}

func quoteRef(q model.Quote, sources map[string]model.Transcript) model.QuoteRef {
	ref := model.QuoteRef{
		QuoteID: q.ID,
		Text:    q.Text,
		Date:    q.Date,
	}
	if t, ok := sources[q.TranscriptID]; ok {
		ref.Source = t.Source
		ref.URL = t.SourceURL
	}
	return ref
}
