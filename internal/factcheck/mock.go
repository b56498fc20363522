package factcheck

import (
	"context"
	"strings"

	"github.com/rostrumlab/rostrum/internal/model"
)

// claimEntry pairs the patterns that identify a known claim with its
// published verdict.
type claimEntry struct {
	patterns []string
	check    model.FactCheck
}

// mockClaims is the embedded fixture table. Patterns are compared in
// normalized form; the first matching entry wins.
var mockClaims = []claimEntry{
	{
		patterns: []string{"biggest crowd", "largest crowd", "record crowd", "biggest inauguration crowd"},
		check: model.FactCheck{
			Rating:       model.RatingFalse,
			Source:       "Rostrum Claim Review",
			SourceURL:    "https://example.org/claims/crowd-size",
			Summary:      "Aerial photography and transit records contradict the crowd size claim.",
			CheckedDate:  "2025-01-21",
			MatchedTopic: "crowd size",
		},
	},
	{
		patterns: []string{"greatest economy in history", "best economy ever", "strongest economy in the history"},
		check: model.FactCheck{
			Rating:       model.RatingMostlyFalse,
			Source:       "Rostrum Claim Review",
			SourceURL:    "https://example.org/claims/greatest-economy",
			Summary:      "Growth and unemployment were strong but not historic records.",
			CheckedDate:  "2025-02-03",
			MatchedTopic: "economy",
		},
	},
	{
		patterns: []string{"millions of illegal votes", "election was stolen", "massive voter fraud"},
		check: model.FactCheck{
			Rating:       model.RatingFalse,
			Source:       "Rostrum Claim Review",
			SourceURL:    "https://example.org/claims/voter-fraud",
			Summary:      "Audits and court findings identified no widespread fraud.",
			CheckedDate:  "2025-01-10",
			MatchedTopic: "election integrity",
		},
	},
	{
		patterns: []string{"lowest unemployment ever", "lowest unemployment in history"},
		check: model.FactCheck{
			Rating:       model.RatingHalfTrue,
			Source:       "Rostrum Claim Review",
			SourceURL:    "https://example.org/claims/unemployment",
			Summary:      "Unemployment hit a 50-year low, not an all-time low.",
			CheckedDate:  "2025-02-15",
			MatchedTopic: "economy",
		},
	},
	{
		patterns: []string{"crime is at an all time high", "crime rates are the highest"},
		check: model.FactCheck{
			Rating:       model.RatingMostlyFalse,
			Source:       "Rostrum Claim Review",
			SourceURL:    "https://example.org/claims/crime-rates",
			Summary:      "National crime statistics show declining violent crime.",
			CheckedDate:  "2025-03-01",
			MatchedTopic: "crime",
		},
	},
}

// MockResolver serves verdicts from the embedded fixture table. Used in
// tests and when no provider is configured.
type MockResolver struct {
	claims []claimEntry
}

// NewMockResolver returns a resolver over the embedded fixtures.
func NewMockResolver() *MockResolver {
	return &MockResolver{claims: mockClaims}
}

// Check returns the verdict of the first claim entry with a pattern whose
// normalized form is a substring of the normalized query, or nil.
func (r *MockResolver) Check(_ context.Context, text string) *model.FactCheck {
	query := normalize(text)
	if query == "" {
		return nil
	}

	for _, entry := range r.claims {
		for _, pattern := range entry.patterns {
			if strings.Contains(query, normalize(pattern)) {
				check := entry.check
				return &check
			}
		}
	}
	return nil
}
