package snapshot

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Validate checks the value ranges a producer must respect. Serializers do
// not depend on it; it guards what gets stored.
func (s Snapshot) Validate() error {
	if s.Date.IsZero() || !s.Date.IsValid() {
		return fmt.Errorf("%w: date is required", ErrInvalidSnapshot)
	}

	fractions := []struct {
		name string
		v    *float64
	}{
		{"vitals.blood_oxygen", s.Vitals.BloodOxygen},
		{"body.body_fat", s.Body.BodyFat},
		{"mobility.double_support", s.Mobility.DoubleSupport},
		{"mobility.asymmetry", s.Mobility.Asymmetry},
	}
	for _, f := range fractions {
		if f.v != nil && (*f.v < 0 || *f.v > 1 || math.IsNaN(*f.v)) {
			return fmt.Errorf("%w: %s must be a fraction in [0, 1]", ErrInvalidSnapshot, f.name)
		}
	}

	durations := []struct {
		name string
		v    float64
	}{
		{"sleep.total_seconds", s.Sleep.Total},
		{"sleep.in_bed_seconds", s.Sleep.InBed},
		{"sleep.deep_seconds", s.Sleep.Deep},
		{"sleep.rem_seconds", s.Sleep.REM},
		{"sleep.core_seconds", s.Sleep.Core},
		{"sleep.awake_seconds", s.Sleep.Awake},
		{"activity.exercise_seconds", s.Activity.ExerciseTime},
		{"mindfulness.mindful_seconds", s.Mindfulness.MindfulTime},
	}
	for _, d := range durations {
		if d.v < 0 || math.IsNaN(d.v) {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidSnapshot, d.name)
		}
	}

	for i, w := range s.Workouts {
		if w.Duration < 0 || math.IsNaN(w.Duration) {
			return fmt.Errorf("%w: workouts[%d].duration_seconds must not be negative", ErrInvalidSnapshot, i)
		}
		if w.Calories != nil && *w.Calories <= 0 {
			return fmt.Errorf("%w: workouts[%d].calories_kcal must be positive when present", ErrInvalidSnapshot, i)
		}
		if w.Distance != nil && *w.Distance <= 0 {
			return fmt.Errorf("%w: workouts[%d].distance_m must be positive when present", ErrInvalidSnapshot, i)
		}
		if w.Start.IsZero() {
			return fmt.Errorf("%w: workouts[%d].start is required", ErrInvalidSnapshot, i)
		}
	}

	for i, m := range s.Mood {
		if m.Valence < -1 || m.Valence > 1 || math.IsNaN(m.Valence) {
			return fmt.Errorf("%w: mood[%d].valence must be in [-1, 1]", ErrInvalidSnapshot, i)
		}
		switch m.Kind {
		case MoodMomentaryEmotion, MoodDailyMood:
		default:
			return fmt.Errorf("%w: mood[%d].kind must be momentary_emotion or daily_mood", ErrInvalidSnapshot, i)
		}
		if m.Time.IsZero() {
			return fmt.Errorf("%w: mood[%d].time is required", ErrInvalidSnapshot, i)
		}
	}

	return nil
}
