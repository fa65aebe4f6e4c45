package export

import (
	"strconv"
	"strings"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

const noDataLine = "_No health data recorded for this day._"

// Markdown renders the daily note: optional metadata block, title, summary
// and one section per category with data.
func Markdown(s snapshot.Snapshot, cfg exportconfig.Configuration) string {
	var b strings.Builder
	b.Grow(2048)

	if cfg.Frontmatter.Include {
		writeMetadata(&b, markdownMetadata(&s, cfg), cfg.Frontmatter)
	}

	b.WriteString("# " + title(s, cfg) + "\n")
	if cfg.Template.IncludeSummary {
		if sum := Summary(&s); sum != "" {
			b.WriteString("\n" + sum + "\n")
		}
	}

	w := markdownWriter{b: &b, cfg: cfg}
	wrote := false
	for _, c := range snapshot.Categories {
		if !s.Has(c) {
			continue
		}
		b.WriteString("\n")
		w.heading(c)
		switch c {
		case snapshot.CategoryWorkouts:
			w.workouts(s.Workouts)
		case snapshot.CategoryMood:
			w.mood(s.Mood)
		default:
			for _, r := range Readings(&s, c) {
				w.bullet(r.Label, r.Display(cfg.Units))
			}
		}
		wrote = true
	}
	if !wrote {
		b.WriteString("\n" + noDataLine + "\n")
	}
	return b.String()
}

// markdownMetadata picks the configured, enabled fields in configured order.
func markdownMetadata(s *snapshot.Snapshot, cfg exportconfig.Configuration) []property {
	values := make(map[string]string)
	for _, p := range properties(s, cfg) {
		values[p.Key] = p.Value
	}
	lines := make([]property, 0, len(cfg.Frontmatter.Fields))
	for _, policy := range cfg.Frontmatter.Fields {
		if !policy.Enabled {
			continue
		}
		if v, ok := values[policy.Key]; ok {
			lines = append(lines, property{policy.Name(), v})
		}
	}
	return lines
}

type markdownWriter struct {
	b   *strings.Builder
	cfg exportconfig.Configuration
}

func (w markdownWriter) heading(c snapshot.Category) {
	t := w.cfg.Template
	w.b.WriteString(strings.Repeat("#", t.HeadingLevel) + " ")
	if t.Emoji && c.Emoji() != "" {
		w.b.WriteString(c.Emoji() + " ")
	}
	w.b.WriteString(c.Title() + "\n\n")
}

func (w markdownWriter) subheading(text string) {
	level := w.cfg.Template.HeadingLevel + 1
	if level > 6 {
		level = 6
	}
	w.b.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
}

func (w markdownWriter) bullet(label, value string) {
	w.b.WriteString(w.cfg.Template.Bullet + " ")
	if w.cfg.Template.Style == exportconfig.StylePlain {
		w.b.WriteString(label + ": ")
	} else {
		w.b.WriteString("**" + label + ":** ")
	}
	w.b.WriteString(value + "\n")
}

func (w markdownWriter) subBullet(label, value string) {
	w.b.WriteString("  " + w.cfg.Template.Bullet + " " + label + ": " + value + "\n")
}

func (w markdownWriter) workouts(list []snapshot.Workout) {
	sys := w.cfg.Units
	for i, wo := range list {
		if i > 0 {
			w.b.WriteString("\n")
		}
		w.subheading(strconv.Itoa(i+1) + ". " + wo.Kind.DisplayName())
		w.bullet("Start", w.cfg.FormatTime(wo.Start))
		w.bullet("Duration", units.FormatDuration(wo.Duration))
		if wo.Distance != nil && *wo.Distance > 0 {
			w.bullet("Distance", units.Display(units.Distance, *wo.Distance, sys))
		}
		if wo.Calories != nil && *wo.Calories > 0 {
			w.bullet("Calories", units.Display(units.Energy, *wo.Calories, sys))
		}
	}
}

func (w markdownWriter) mood(entries []snapshot.MoodEntry) {
	for _, e := range entries {
		label := e.Kind.DisplayName() + " (" + w.cfg.FormatTime(e.Time) + ")"
		w.bullet(label, e.Classification()+" ("+strconv.Itoa(e.ValencePercent())+"%)")
		if len(e.Labels) > 0 {
			w.subBullet("Labels", strings.Join(e.Labels, ", "))
		}
		if len(e.Associations) > 0 {
			w.subBullet("Associations", strings.Join(e.Associations, ", "))
		}
	}
}
