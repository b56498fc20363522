package extract

import "unicode"

// Sentence is one segmented sentence with its character offsets in the
// original text.
type Sentence struct {
	Text  string
	Start int
	End   int
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’':
		return true
	}
	return false
}

// SplitSentences segments text into sentences with stable offsets. A run
// ending in '.', '!', or '?', optionally followed by a closing quote and
// whitespace, is one sentence; a trailing run with no terminator is the
// final sentence. Segmentation is deterministic, so offsets (and the quote
// ids derived from them) are stable across runs.
func SplitSentences(text string) []Sentence {
	runes := []rune(text)
	var sentences []Sentence

	start := 0
	i := 0
	for i < len(runes) {
		// Skip leading whitespace so offsets point at the first word.
		if start == i && unicode.IsSpace(runes[i]) {
			i++
			start = i
			continue
		}

		if isTerminator(runes[i]) {
			end := i + 1
			for end < len(runes) && isClosingQuote(runes[end]) {
				end++
			}
			// A terminator mid-token ("3.5", "U.S.") does not end the
			// sentence unless whitespace or end-of-text follows.
			if end < len(runes) && !unicode.IsSpace(runes[end]) {
				i = end
				continue
			}

			sentences = append(sentences, makeSentence(runes, start, end))
			i = end
			start = end
			continue
		}

		i++
	}

	if start < len(runes) {
		s := makeSentence(runes, start, len(runes))
		if s.Text != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

func makeSentence(runes []rune, start, end int) Sentence {
	for start < end && unicode.IsSpace(runes[start]) {
		start++
	}
	trimmed := end
	for trimmed > start && unicode.IsSpace(runes[trimmed-1]) {
		trimmed--
	}
	return Sentence{
		Text:  string(runes[start:trimmed]),
		Start: start,
		End:   trimmed,
	}
}
