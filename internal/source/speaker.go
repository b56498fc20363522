package source

import (
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

// normalizeName lowercases a name and strips everything but letters and
// spaces, so "Sen. J. Smith" and "sen j smith" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractSpeakerID matches a raw speaker hint against the speaker table by
// bidirectional substring on normalized names. Returns "" when nothing
// matches; attribution then falls back to role inference.
func ExtractSpeakerID(hint string, speakers []model.Speaker) string {
	normalized := normalizeName(hint)
	if normalized == "" {
		return ""
	}

	for _, s := range speakers {
		name := normalizeName(s.Name)
		if name == "" {
			continue
		}
		if strings.Contains(normalized, name) || strings.Contains(name, normalized) {
			return s.ID
		}

		for _, pattern := range s.MatchPatterns {
			p := normalizeName(pattern)
			if p != "" && strings.Contains(normalized, p) {
				return s.ID
			}
		}
	}

	return ""
}

// InferRole guesses a coarse role from an unmatched speaker string.
func InferRole(hint string) string {
	lower := strings.ToLower(hint)

	switch {
	case strings.Contains(lower, "vice president"):
		return "Vice President"
	case strings.Contains(lower, "president"):
		return "President"
	case strings.Contains(lower, "press secretary"):
		return "Press Secretary"
	case strings.Contains(lower, "secretary"):
		return "Cabinet Secretary"
	}

	return ""
}
