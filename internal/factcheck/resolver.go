// Package factcheck matches quote text against known claim patterns and
// attaches a claim-review rating. The resolver is pluggable: the mock
// resolver serves an embedded fixture table, the HTTP resolver queries a
// claim-review API. The pipeline only sees the Resolver interface.
package factcheck

import (
	"context"

	"github.com/rostrumlab/rostrum/internal/model"
)

// Resolver looks up a fact-check verdict for a piece of quote text.
// A nil return means no known claim matched.
type Resolver interface {
	Check(ctx context.Context, text string) *model.FactCheck
}

// normalize lowercases, strips non-alphanumerics, and collapses whitespace,
// so pattern and query compare on words alone.
func normalize(s string) string {
	out := make([]byte, 0, len(s))
	lastSpace := true
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'A' && b <= 'Z':
			out = append(out, b+'a'-'A')
			lastSpace = false
		case (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9'):
			out = append(out, b)
			lastSpace = false
		default:
			if !lastSpace {
				out = append(out, ' ')
				lastSpace = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
