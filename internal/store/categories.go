package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rostrumlab/rostrum/internal/model"
)

// defaultCategories seeds the label vocabulary when no category file
// exists.
var defaultCategories = []model.Category{
	{ID: "economy", Kind: model.CategoryTopic, Label: "Economy", Color: "#2a9d8f",
		Keywords: []string{"economy", "economic", "jobs", "unemployment", "inflation", "tax cuts", "taxes", "tariffs", "trade"}},
	{ID: "immigration", Kind: model.CategoryTopic, Label: "Immigration", Color: "#e9c46a",
		Keywords: []string{"border", "immigration", "immigrants", "migrants", "deportation", "wall", "asylum"}},
	{ID: "healthcare", Kind: model.CategoryTopic, Label: "Healthcare", Color: "#f4a261",
		Keywords: []string{"healthcare", "health care", "obamacare", "medicare", "medicaid", "insurance"}},
	{ID: "elections", Kind: model.CategoryTopic, Label: "Elections", Color: "#e76f51",
		Keywords: []string{"election", "votes", "ballots", "voter fraud", "rigged", "polls"}},
	{ID: "crime", Kind: model.CategoryTopic, Label: "Crime & Justice", Color: "#264653",
		Keywords: []string{"crime", "criminals", "police", "law and order", "prison", "justice"}},
	{ID: "foreign-policy", Kind: model.CategoryTopic, Label: "Foreign Policy", Color: "#457b9d",
		Keywords: []string{"china", "russia", "ukraine", "nato", "war", "military", "sanctions"}},
	{ID: "media", Kind: model.CategoryTopic, Label: "Media", Color: "#8d99ae",
		Keywords: []string{"fake news", "the media", "the press", "mainstream media", "journalists"}},

	{ID: "dehumanizing", Kind: model.CategoryRhetoric, Label: "Dehumanizing Language", Severity: model.SeverityHigh,
		Keywords: []string{"animals", "vermin", "poisoning the blood", "infest", "invaders"}},
	{ID: "violent", Kind: model.CategoryRhetoric, Label: "Violent Rhetoric", Severity: model.SeverityHigh,
		Keywords: []string{"fight like hell", "take them out", "rough them up", "second amendment people"}},
	{ID: "fearmongering", Kind: model.CategoryRhetoric, Label: "Fearmongering", Severity: model.SeverityMedium,
		Keywords: []string{"invasion", "destroy", "disaster", "carnage", "under siege", "end of our country"}},
	{ID: "scapegoating", Kind: model.CategoryRhetoric, Label: "Scapegoating", Severity: model.SeverityMedium,
		Keywords: []string{"because of them", "they are the problem", "blame", "enemy of the people"}},
	{ID: "self-aggrandizing", Kind: model.CategoryRhetoric, Label: "Self-Aggrandizing", Severity: model.SeverityLow,
		Keywords: []string{"only i can", "nobody knows more", "i alone", "like never before"}},
	{ID: "absolutist", Kind: model.CategoryRhetoric, Label: "Absolutist Claims", Severity: model.SeverityLow,
		Keywords: []string{"in history", "of all time", "ever seen", "never before", "always", "everyone knows"}},
}

// LoadCategories reads the category file, falling back to the seeded
// defaults when the file does not exist.
func LoadCategories(path string) ([]model.Category, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return append([]model.Category(nil), defaultCategories...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}

	for i, c := range categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category %d: missing id", i)
		}
		switch c.Kind {
		case model.CategoryTopic, model.CategoryRhetoric, model.CategoryFactCheck:
		default:
			return nil, fmt.Errorf("category %s: unknown kind %q", c.ID, c.Kind)
		}
	}

	return categories, nil
}
