package source

import (
	"testing"

	"github.com/rostrumlab/rostrum/internal/model"
)

var testSpeakers = []model.Speaker{
	{
		ID:            "donald-trump",
		Name:          "Donald Trump",
		Roles:         []string{"President"},
		MatchPatterns: []string{"president trump", "the president"},
	},
	{
		ID:            "jd-vance",
		Name:          "JD Vance",
		Roles:         []string{"Vice President"},
		MatchPatterns: []string{"vice president vance"},
	},
}

func TestExtractSpeakerID(t *testing.T) {
	tests := []struct {
		hint string
		want string
	}{
		{"Donald Trump", "donald-trump"},
		{"DONALD TRUMP", "donald-trump"},
		{"President Donald Trump", "donald-trump"},
		{"Trump", "donald-trump"},
		{"Remarks by President Trump on Trade", "donald-trump"},
		{"Vice President Vance", "jd-vance"},
		{"JD Vance", "jd-vance"},
		{"Jane Smith", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractSpeakerID(tt.hint, testSpeakers); got != tt.want {
			t.Errorf("ExtractSpeakerID(%q) = %q, want %q", tt.hint, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sen. J. Smith", "sen j smith"},
		{"  Donald   Trump ", "donald trump"},
		{"O'Brien-Smith", "obriensmith"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		hint string
		want string
	}{
		{"THE VICE PRESIDENT", "Vice President"},
		{"THE PRESIDENT", "President"},
		{"Press Secretary Jane Doe", "Press Secretary"},
		{"Secretary of Defense", "Cabinet Secretary"},
		{"Some Citizen", ""},
	}

	for _, tt := range tests {
		if got := InferRole(tt.hint); got != tt.want {
			t.Errorf("InferRole(%q) = %q, want %q", tt.hint, got, tt.want)
		}
	}
}
