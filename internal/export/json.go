package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

type object = *orderedmap.OrderedMap[string, any]

func newObject() object { return orderedmap.New[string, any]() }

// JSON renders the snapshot as one pretty-printed object. Keys keep the order
// they are set in, so identical input always produces identical bytes.
func JSON(s snapshot.Snapshot, cfg exportconfig.Configuration) (string, error) {
	root := newObject()
	root.Set("date", s.Date.String())
	root.Set("type", documentType)
	root.Set("units", string(cfg.Units))

	for _, c := range snapshot.Categories {
		if !s.Has(c) {
			continue
		}
		switch c {
		case snapshot.CategoryWorkouts:
			root.Set(string(c), jsonWorkouts(s.Workouts, cfg))
		case snapshot.CategoryMood:
			root.Set(string(c), jsonMood(s.Mood, cfg))
		default:
			obj := newObject()
			for _, r := range Readings(&s, c) {
				setReading(obj, r, cfg.Units)
			}
			root.Set(string(c), obj)
		}
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json export: %w", err)
	}
	return string(data) + "\n", nil
}

// setReading writes the canonical value and, where it helps, a converted
// companion: fractions as *_percent, durations as *_formatted, convertible
// measurements suffixed with their display unit.
func setReading(obj object, r Reading, sys units.System) {
	if r.Kind == units.Count {
		obj.Set(r.Field, int64(r.Value))
		return
	}
	obj.Set(r.Field, r.Value)

	switch r.Kind {
	case units.Fraction:
		obj.Set(r.Field+"_percent", r.Quantity(sys).Value)
	case units.DurationHours, units.DurationMinutes:
		obj.Set(r.Field+"_formatted", units.FormatDuration(r.Value))
	case units.Distance, units.Weight, units.Height, units.Length, units.Temperature, units.Volume, units.Speed:
		q := r.Quantity(sys)
		obj.Set(r.Field+"_"+unitSuffix(q.Unit), q.Value)
	}
}

var unitSuffixes = map[string]string{
	"°C":    "c",
	"°F":    "f",
	"fl oz": "fl_oz",
	"km/h":  "kmh",
	"L":     "l",
}

func unitSuffix(unit string) string {
	if s, ok := unitSuffixes[unit]; ok {
		return s
	}
	return strings.ToLower(unit)
}

func jsonWorkouts(list []snapshot.Workout, cfg exportconfig.Configuration) []any {
	out := make([]any, 0, len(list))
	loc := cfg.Location()
	for _, w := range list {
		obj := newObject()
		obj.Set("type", string(w.Kind))
		obj.Set("name", w.Kind.DisplayName())
		obj.Set("start", w.Start.In(loc).Format(time.RFC3339))
		obj.Set("start_formatted", cfg.FormatTime(w.Start))
		obj.Set("duration", w.Duration)
		obj.Set("duration_formatted", units.FormatDuration(w.Duration))
		if w.Calories != nil && *w.Calories > 0 {
			obj.Set("calories", *w.Calories)
		}
		if w.Distance != nil && *w.Distance > 0 {
			q := units.Convert(units.Distance, *w.Distance, cfg.Units)
			obj.Set("distance", *w.Distance)
			obj.Set("distance_"+unitSuffix(q.Unit), q.Value)
		}
		out = append(out, obj)
	}
	return out
}

func jsonMood(entries []snapshot.MoodEntry, cfg exportconfig.Configuration) []any {
	out := make([]any, 0, len(entries))
	loc := cfg.Location()
	for _, e := range entries {
		obj := newObject()
		obj.Set("time", e.Time.In(loc).Format(time.RFC3339))
		obj.Set("time_formatted", cfg.FormatTime(e.Time))
		obj.Set("kind", string(e.Kind))
		obj.Set("valence", e.Valence)
		obj.Set("valence_percent", e.ValencePercent())
		obj.Set("classification", e.Classification())
		if len(e.Labels) > 0 {
			obj.Set("labels", e.Labels)
		}
		if len(e.Associations) > 0 {
			obj.Set("associations", e.Associations)
		}
		out = append(out, obj)
	}
	return out
}
