package pipeline

import "github.com/rostrumlab/rostrum/internal/model"

// computeStats re-derives the corpus summary from scratch. Every counter is
// recomputed; nothing is incrementally updated.
func computeStats(corpus *model.Corpus) model.Stats {
	stats := model.Stats{
		BySpeaker:         map[string]int{},
		BySource:          map[string]int{},
		ByEventType:       map[string]int{},
		ByTopic:           map[string]int{},
		ByRhetoric:        map[string]int{},
		ByFactCheckRating: map[string]int{},
		ByDate:            map[string]int{},
	}

	for _, t := range corpus.Transcripts {
		stats.TotalTranscripts++

		speaker := t.SpeakerID
		if speaker == "" {
			speaker = "unattributed"
		}
		stats.BySpeaker[speaker]++
		stats.BySource[t.Source]++
		stats.ByEventType[string(t.EventType)]++
		if t.Date != "" {
			stats.ByDate[t.Date]++
		}

		for _, q := range t.ExtractedQuotes {
			stats.TotalQuotes++
			if q.Severity == model.SeverityHigh {
				stats.HighSeverityCount++
			}
			for _, topic := range q.Topics {
				stats.ByTopic[topic]++
			}
			for _, label := range q.Rhetoric {
				stats.ByRhetoric[label]++
			}
			if q.FactCheck != nil {
				stats.ByFactCheckRating[string(q.FactCheck.Rating)]++
			}
		}
	}

	return stats
}
