package snapshot

import (
	"math"
	"time"
)

// MoodKind tags how a mood entry was reported.
type MoodKind string

const (
	MoodMomentaryEmotion MoodKind = "momentary_emotion"
	MoodDailyMood        MoodKind = "daily_mood"
)

func (k MoodKind) DisplayName() string {
	switch k {
	case MoodMomentaryEmotion:
		return "Momentary Emotion"
	case MoodDailyMood:
		return "Daily Mood"
	}
	return "Mood"
}

// MoodEntry is one state-of-mind report. Valence is in [-1, 1].
type MoodEntry struct {
	Time         time.Time `json:"time"`
	Kind         MoodKind  `json:"kind"`
	Valence      float64   `json:"valence"`
	Labels       []string  `json:"labels,omitempty"`
	Associations []string  `json:"associations,omitempty"`
}

// ValencePercent maps valence from [-1, 1] onto 0..100.
func (e MoodEntry) ValencePercent() int {
	return ValencePercent(e.Valence)
}

func (e MoodEntry) Classification() string {
	return Classify(e.Valence)
}

func (e MoodEntry) clone() MoodEntry {
	c := e
	if e.Labels != nil {
		c.Labels = append([]string(nil), e.Labels...)
	}
	if e.Associations != nil {
		c.Associations = append([]string(nil), e.Associations...)
	}
	return c
}

func ValencePercent(valence float64) int {
	return int(math.Round(((valence + 1) / 2) * 100))
}

// Classify buckets a valence value. Cut points are inclusive on the lower bound.
func Classify(valence float64) string {
	switch {
	case valence < -0.6:
		return "Very Unpleasant"
	case valence < -0.2:
		return "Unpleasant"
	case valence < 0.2:
		return "Neutral"
	case valence < 0.6:
		return "Pleasant"
	default:
		return "Very Pleasant"
	}
}

// AverageValencePercent is the mean valence of all entries as a percentage.
// ok is false when there are no entries.
func AverageValencePercent(entries []MoodEntry) (pct int, ok bool) {
	if len(entries) == 0 {
		return 0, false
	}
	var sum float64
	for _, e := range entries {
		sum += e.Valence
	}
	return ValencePercent(sum / float64(len(entries))), true
}
