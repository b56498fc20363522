package extract

import (
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

// patternFamily is one weighted group of notability markers. Single-word
// terms match on word boundaries; multi-word terms match on substring.
type patternFamily struct {
	reason string
	weight int
	terms  []string
}

var patternFamilies = []patternFamily{
	{
		reason: model.ReasonSuperlative,
		weight: 2,
		terms: []string{
			"best", "worst", "greatest", "biggest", "most", "least",
			"never", "always", "everyone", "no one", "nobody",
			"absolutely", "totally", "completely", "definitely",
			"tremendous", "terrible", "incredible", "unbelievable",
			"perfect", "disaster",
			"in history", "ever seen", "of all time", "like never before",
		},
	},
	{
		reason: model.ReasonGroupReference,
		weight: 3,
		terms: []string{
			"they", "them", "those people",
			"immigrants", "immigrant", "migrants", "migrant",
			"democrats", "democrat", "republicans", "republican",
			"the media", "fake news", "the press",
			"criminals", "criminal",
			"the left", "the right", "radical left",
			"elites", "elite", "establishment", "deep state", "swamp",
		},
	},
	{
		reason: model.ReasonPolicyDeclaration,
		weight: 2,
		terms: []string{
			"we will", "we're going to", "we are going to", "we must",
			"we need to", "i will", "i'm going to",
			"my plan", "our plan", "my administration",
			"executive order", "legislation", "bill", "policy",
			"ban", "prohibit", "allow", "require", "mandate",
			"eliminate", "repeal",
		},
	},
	{
		reason: model.ReasonClaim,
		weight: 2,
		terms: []string{
			"i never said", "i didn't say", "i did not say",
			"the truth is", "the fact is", "believe me",
			"everyone knows", "people are saying",
			"many people are saying", "it's been proven",
		},
	},
}

// matchTerms returns the distinct family terms present in the lowercased
// sentence, in family order.
func matchTerms(lower string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(term, " ") || strings.Contains(term, "'") {
			if strings.Contains(lower, term) {
				matched = append(matched, term)
			}
			continue
		}
		if containsWord(lower, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// containsWord reports whether word occurs in s bounded by non-alphanumeric
// characters, so "ban" does not match "urban".
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
