package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

// CSVHeader is the fixed first row of every CSV export.
var CSVHeader = []string{"Date", "Category", "Metric", "Value", "Unit"}

// CSV renders one row per present metric, one to three rows per workout and
// up to three rows per mood entry, in Markdown section order.
func CSV(s snapshot.Snapshot, cfg exportconfig.Configuration) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(CSVRows(s, cfg)); err != nil {
		return "", fmt.Errorf("write csv rows: %w", err)
	}
	return buf.String(), nil
}

// CSVRows returns the data rows without the header, so several days can be
// concatenated into one sheet.
func CSVRows(s snapshot.Snapshot, cfg exportconfig.Configuration) [][]string {
	date := s.Date.String()
	sys := cfg.Units
	var rows [][]string
	row := func(category, metric, value, unit string) {
		rows = append(rows, []string{date, category, metric, value, unit})
	}

	for _, c := range snapshot.Categories {
		if !s.Has(c) {
			continue
		}
		cat := c.Title()
		switch c {
		case snapshot.CategoryWorkouts:
			for i, w := range s.Workouts {
				name := strconv.Itoa(i+1) + ". " + w.Kind.DisplayName()
				d := units.Convert(units.DurationMinutes, w.Duration, sys)
				row(cat, name+" ("+cfg.FormatTime(w.Start)+")", units.FormatNumber(d.Value), d.Unit)
				if w.Distance != nil && *w.Distance > 0 {
					q := units.Convert(units.Distance, *w.Distance, sys)
					row(cat, name+" Distance", units.FormatNumber(q.Value), q.Unit)
				}
				if w.Calories != nil && *w.Calories > 0 {
					q := units.Convert(units.Energy, *w.Calories, sys)
					row(cat, name+" Calories", units.FormatNumber(q.Value), q.Unit)
				}
			}
		case snapshot.CategoryMood:
			for _, e := range s.Mood {
				name := e.Kind.DisplayName() + " (" + cfg.FormatTime(e.Time) + ")"
				row(cat, name, strconv.Itoa(e.ValencePercent()), "percent")
				if len(e.Labels) > 0 {
					row(cat, name+" Labels", csvList(e.Labels), "")
				}
				if len(e.Associations) > 0 {
					row(cat, name+" Associations", csvList(e.Associations), "")
				}
			}
		default:
			for _, r := range Readings(&s, c) {
				q := r.Quantity(sys)
				unit := q.Unit
				if unit == "" {
					unit = "count"
				}
				row(cat, r.Label, units.FormatNumber(q.Value), unit)
			}
		}
	}
	return rows
}

// csvList joins free-text values with "; " after dropping their commas.
func csvList(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, "; ")
}
