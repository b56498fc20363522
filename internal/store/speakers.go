package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rostrumlab/rostrum/internal/model"
)

// defaultSpeakers seeds the speaker table when no speaker file exists. Ids
// are stable; the rest can be edited out-of-band.
var defaultSpeakers = []model.Speaker{
	{
		ID:            "donald-trump",
		Name:          "Donald Trump",
		Roles:         []string{"President"},
		Party:         "Republican",
		Color:         "#e63946",
		Category:      "executive",
		SearchTerms:   []string{"Donald Trump", "President Trump"},
		MatchPatterns: []string{"president trump", "donald j\\.? trump", "the president"},
	},
	{
		ID:            "jd-vance",
		Name:          "JD Vance",
		Roles:         []string{"Vice President"},
		Party:         "Republican",
		Color:         "#f4a261",
		Category:      "executive",
		SearchTerms:   []string{"JD Vance", "Vice President Vance"},
		MatchPatterns: []string{"vice president vance", "jd vance", "the vice president"},
	},
	{
		ID:            "karoline-leavitt",
		Name:          "Karoline Leavitt",
		Roles:         []string{"Press Secretary"},
		Party:         "Republican",
		Color:         "#2a9d8f",
		Category:      "executive",
		SearchTerms:   []string{"Karoline Leavitt"},
		MatchPatterns: []string{"press secretary leavitt", "karoline leavitt"},
	},
	{
		ID:            "mike-johnson",
		Name:          "Mike Johnson",
		Roles:         []string{"Speaker of the House"},
		Party:         "Republican",
		Color:         "#457b9d",
		Category:      "legislative",
		SearchTerms:   []string{"Mike Johnson", "Speaker Johnson"},
		MatchPatterns: []string{"speaker johnson", "mike johnson"},
	},
	{
		ID:            "chuck-schumer",
		Name:          "Chuck Schumer",
		Roles:         []string{"Senate Minority Leader"},
		Party:         "Democrat",
		Color:         "#5e60ce",
		Category:      "legislative",
		SearchTerms:   []string{"Chuck Schumer", "Senator Schumer"},
		MatchPatterns: []string{"senator schumer", "chuck schumer"},
	},
}

// LoadSpeakers reads the speaker file, falling back to the seeded defaults
// when the file does not exist. Speakers without a color get the default.
func LoadSpeakers(path string) ([]model.Speaker, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return append([]model.Speaker(nil), defaultSpeakers...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read speakers: %w", err)
	}

	var speakers []model.Speaker
	if err := json.Unmarshal(data, &speakers); err != nil {
		return nil, fmt.Errorf("parse speakers %s: %w", path, err)
	}

	for i := range speakers {
		if speakers[i].ID == "" {
			return nil, fmt.Errorf("speaker %d: missing id", i)
		}
		if speakers[i].Color == "" {
			speakers[i].Color = model.DefaultSpeakerColor
		}
	}

	return speakers, nil
}
