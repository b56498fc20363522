// Package classify attaches topic and rhetoric labels to quote text from
// keyword rules. The rules come from the category config; the classifier
// holds no global state, so two instances with the same config behave
// identically.
package classify

import (
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

// Result is the label set for one piece of text. Matched keywords are
// reported per label id.
type Result struct {
	Topics   []string
	Rhetoric []string
	Severity model.Severity
	Matched  map[string][]string
}

// Classifier applies the category keyword rules. Construct one per run and
// pass it through the pipeline; the config is never mutated.
type Classifier struct {
	topics   []model.Category
	rhetoric []model.Category
}

// New builds a classifier from the category vocabulary. Factcheck-kind
// categories carry no keywords and are ignored here.
func New(categories []model.Category) *Classifier {
	c := &Classifier{}
	for _, cat := range categories {
		switch cat.Kind {
		case model.CategoryTopic:
			c.topics = append(c.topics, cat)
		case model.CategoryRhetoric:
			c.rhetoric = append(c.rhetoric, cat)
		}
	}
	return c
}

// Classify labels the text. Single-word keywords match on word boundaries,
// multi-word keywords on substring. Severity is the most serious severity
// among matched rhetoric labels; empty when no rhetoric matched. Output
// order follows config order, so classification is stable.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	result := Result{
		Topics:   []string{},
		Rhetoric: []string{},
	}

	for _, cat := range c.topics {
		if matched := matchKeywords(lower, cat.Keywords); len(matched) > 0 {
			result.Topics = append(result.Topics, cat.ID)
			result.addMatched(cat.ID, matched)
		}
	}
	for _, cat := range c.rhetoric {
		if matched := matchKeywords(lower, cat.Keywords); len(matched) > 0 {
			result.Rhetoric = append(result.Rhetoric, cat.ID)
			result.addMatched(cat.ID, matched)
			result.Severity = model.MaxSeverity(result.Severity, cat.Severity)
		}
	}

	return result
}

// Apply classifies a quote's text and writes the labels onto the quote.
func (c *Classifier) Apply(q *model.Quote) {
	r := c.Classify(q.Text)
	q.Topics = r.Topics
	q.Rhetoric = r.Rhetoric
	q.Severity = r.Severity
}

func (r *Result) addMatched(label string, keywords []string) {
	if r.Matched == nil {
		r.Matched = make(map[string][]string)
	}
	r.Matched[label] = keywords
}

// matchKeywords returns the keywords present in the lowercased text, in
// config order.
func matchKeywords(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
			continue
		}
		if containsWord(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// containsWord reports whether word occurs bounded by non-alphanumeric
// characters, so "rally" does not match "rallying".
func containsWord(s, word string) bool {
	for from := 0; ; {
		idx := strings.Index(s[from:], word)
		if idx < 0 {
			return false
		}
		idx += from

		beforeOK := idx == 0 || !isWordByte(s[idx-1])
		afterIdx := idx + len(word)
		afterOK := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if beforeOK && afterOK {
			return true
		}

		from = idx + 1
		if from >= len(s) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
