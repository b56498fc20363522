package contradict

import "strings"

// stopwords are pronouns and auxiliaries that survive the length filter but
// carry no claim content; keeping them inflates overlap between unrelated
// statements and deflates it between related ones.
var stopwords = map[string]bool{
	"they": true, "them": true, "those": true, "these": true,
	"that": true, "this": true, "there": true, "their": true,
	"were": true, "will": true, "would": true, "could": true,
	"have": true, "been": true, "being": true, "about": true,
	"what": true, "when": true, "with": true, "from": true,
	"said": true, "says": true,
}

// tokens splits on whitespace, strips surrounding punctuation, lowercases,
// and keeps content tokens longer than three characters.
func tokens(s string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
		})
		if len(f) > 3 && !stopwords[f] {
			set[f] = true
		}
	}
	return set
}

// Similarity is token-set overlap divided by the smaller set size. Two
// texts with no content tokens score zero.
func Similarity(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	smaller, larger := ta, tb
	if len(tb) < len(ta) {
		smaller, larger = tb, ta
	}

	shared := 0
	for t := range smaller {
		if larger[t] {
			shared++
		}
	}

	return float64(shared) / float64(len(smaller))
}
