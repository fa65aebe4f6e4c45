package export

import (
	"strconv"
	"strings"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

const documentType = "health-data"

// property is one flat metadata entry with its value already rendered.
type property struct {
	Key   string
	Value string
}

// properties computes every metadata value the snapshot can provide, in a
// fixed order. Both Markdown flavors draw from this list so their numbers
// always agree with CSV and JSON.
func properties(s *snapshot.Snapshot, cfg exportconfig.Configuration) []property {
	props := []property{
		{"date", s.Date.String()},
		{"type", documentType},
	}
	for _, r := range AllReadings(s) {
		props = append(props, property{r.Key, units.FormatNumber(r.Quantity(cfg.Units).Value)})
	}

	if n := len(s.Workouts); n > 0 {
		var total float64
		kinds := make([]string, 0, n)
		for _, w := range s.Workouts {
			total += w.Duration
			kinds = append(kinds, w.Kind.DisplayName())
		}
		props = append(props,
			property{"workout_count", strconv.Itoa(n)},
			property{"workout_minutes", units.FormatNumber(units.Convert(units.DurationMinutes, total, cfg.Units).Value)},
			property{"workout_types", slugList(kinds)},
		)
	}

	if pct, ok := snapshot.AverageValencePercent(s.Mood); ok {
		props = append(props, property{"mood_valence", strconv.Itoa(pct)})
		var labels, assoc []string
		for _, e := range s.Mood {
			labels = append(labels, e.Labels...)
			assoc = append(assoc, e.Associations...)
		}
		if len(labels) > 0 {
			props = append(props, property{"mood_labels", slugList(labels)})
		}
		if len(assoc) > 0 {
			props = append(props, property{"mood_associations", slugList(assoc)})
		}
	}
	return props
}

// Properties renders the metadata-only flavor: every present value in the
// metadata block, then a title, a summary and an empty Notes section.
func Properties(s snapshot.Snapshot, cfg exportconfig.Configuration) string {
	fm := cfg.Frontmatter
	lines := make([]property, 0, 64)
	for _, p := range properties(&s, cfg) {
		name := p.Key
		if policy, ok := fm.Policy(p.Key); ok {
			if !policy.Enabled {
				continue
			}
			name = policy.Name()
		}
		lines = append(lines, property{name, p.Value})
	}

	var b strings.Builder
	writeMetadata(&b, lines, fm)
	b.WriteString("# " + title(s, cfg) + "\n")
	if sum := Summary(&s); sum != "" {
		b.WriteString("\n" + sum + "\n")
	}
	b.WriteString("\n## Notes\n")
	return b.String()
}

// writeMetadata writes a `---` delimited block of key: value lines followed by
// the extra static fields sorted by key. Extra keys never override computed ones.
func writeMetadata(b *strings.Builder, lines []property, fm exportconfig.Frontmatter) {
	extra := fm.SortedExtra()
	if len(lines) == 0 && len(extra) == 0 {
		return
	}
	seen := make(map[string]bool, len(lines))
	b.WriteString("---\n")
	for _, l := range lines {
		seen[l.Key] = true
		b.WriteString(l.Key + ": " + l.Value + "\n")
	}
	for _, kv := range extra {
		if seen[kv.Key] {
			continue
		}
		b.WriteString(kv.Key + ": " + yamlString(kv.Value) + "\n")
	}
	b.WriteString("---\n")
}

func title(s snapshot.Snapshot, cfg exportconfig.Configuration) string {
	return "Health Data — " + cfg.FormatDate(s.Date)
}

const summarySeparator = " · "

// Summary is the one-line overview: sleep, steps, workouts and mean mood.
// It is empty when none of those are present.
func Summary(s *snapshot.Snapshot) string {
	var parts []string
	if s.Sleep.Total > 0 {
		parts = append(parts, units.FormatDuration(s.Sleep.Total)+" sleep")
	}
	if s.Activity.Steps != nil {
		parts = append(parts, units.Grouped(float64(*s.Activity.Steps))+" steps")
	}
	switch n := len(s.Workouts); {
	case n == 1:
		parts = append(parts, "1 workout")
	case n > 1:
		parts = append(parts, strconv.Itoa(n)+" workouts")
	}
	if pct, ok := snapshot.AverageValencePercent(s.Mood); ok {
		parts = append(parts, "mood "+strconv.Itoa(pct)+"%")
	}
	return strings.Join(parts, summarySeparator)
}

// slugList renders values as a bracketed list of unique slugs: [a, b-c].
func slugList(values []string) string {
	seen := make(map[string]bool, len(values))
	slugs := make([]string, 0, len(values))
	for _, v := range values {
		s := slugify(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		slugs = append(slugs, s)
	}
	return "[" + strings.Join(slugs, ", ") + "]"
}

// slugify lowercases and joins words with hyphens. List delimiters are dropped.
func slugify(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ',', '[', ']', '{', '}', '"', '\'':
			return -1
		}
		return r
	}, v)
	return strings.Join(strings.Fields(strings.ToLower(v)), "-")
}

// yamlString quotes a scalar when it would not survive as a plain YAML value.
func yamlString(v string) string {
	if v == "" {
		return `""`
	}
	if strings.TrimSpace(v) != v || strings.ContainsAny(v, "\n\r\t\"") ||
		strings.Contains(v, ": ") || strings.Contains(v, " #") ||
		strings.ContainsRune("-?:,[]{}#&*!|>'%@`", rune(v[0])) {
		return strconv.Quote(v)
	}
	return v
}
