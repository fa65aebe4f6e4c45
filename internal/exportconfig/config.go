// Package exportconfig holds the immutable options every serializer reads:
// date and time formats, unit system, metadata field policy and the Markdown
// template policy.
package exportconfig

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"

	"github.com/fdg312/health-export/internal/units"
)

var ErrInvalid = errors.New("invalid export configuration")

type DateFormat string

const (
	DateISO    DateFormat = "yyyy-MM-dd"
	DateUS     DateFormat = "MM/dd/yyyy"
	DateEU     DateFormat = "dd/MM/yyyy"
	DateLong   DateFormat = "MMMM d, yyyy"
	DateLongEU DateFormat = "d MMMM yyyy"
	DateFull   DateFormat = "EEEE, MMMM d, yyyy"
)

var dateLayouts = map[DateFormat]string{
	DateISO:    "2006-01-02",
	DateUS:     "01/02/2006",
	DateEU:     "02/01/2006",
	DateLong:   "January 2, 2006",
	DateLongEU: "2 January 2006",
	DateFull:   "Monday, January 2, 2006",
}

// Format renders d with the chosen pattern. Unknown patterns fall back to ISO.
func (f DateFormat) Format(d civil.Date) string {
	layout, ok := dateLayouts[f]
	if !ok {
		layout = dateLayouts[DateISO]
	}
	return d.In(time.UTC).Format(layout)
}

type TimeFormat string

const (
	Time24h        TimeFormat = "24h"
	Time24hSeconds TimeFormat = "24h_seconds"
	Time12h        TimeFormat = "12h"
	Time12hSeconds TimeFormat = "12h_seconds"
)

var timeLayouts = map[TimeFormat]string{
	Time24h:        "15:04",
	Time24hSeconds: "15:04:05",
	Time12h:        "3:04 PM",
	Time12hSeconds: "3:04:05 PM",
}

func (f TimeFormat) layout() string {
	if l, ok := timeLayouts[f]; ok {
		return l
	}
	return timeLayouts[Time24h]
}

type Style string

const (
	StyleStandard Style = "standard" // bold bullet labels
	StylePlain    Style = "plain"
)

// FieldPolicy controls one metadata-block field: whether it is emitted and
// under which key.
type FieldPolicy struct {
	Key       string `json:"key" yaml:"key" mapstructure:"key"`
	OutputKey string `json:"output_key,omitempty" yaml:"output_key,omitempty" mapstructure:"output_key"`
	Enabled   bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// Name is the key written to the document.
func (p FieldPolicy) Name() string {
	if strings.TrimSpace(p.OutputKey) != "" {
		return strings.TrimSpace(p.OutputKey)
	}
	return p.Key
}

type Frontmatter struct {
	Include bool              `json:"include" yaml:"include" mapstructure:"include"`
	Fields  []FieldPolicy     `json:"fields" yaml:"fields" mapstructure:"fields"`
	Extra   map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" mapstructure:"extra"`
}

// Policy looks up the policy configured for a canonical field key.
func (f Frontmatter) Policy(key string) (FieldPolicy, bool) {
	for _, p := range f.Fields {
		if p.Key == key {
			return p, true
		}
	}
	return FieldPolicy{}, false
}

// KV is one static metadata pair.
type KV struct {
	Key   string
	Value string
}

// SortedExtra returns the extra static fields ordered by key.
func (f Frontmatter) SortedExtra() []KV {
	out := make([]KV, 0, len(f.Extra))
	for k, v := range f.Extra {
		out = append(out, KV{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

type Template struct {
	HeadingLevel   int    `json:"heading_level" yaml:"heading_level" mapstructure:"heading_level"`
	Bullet         string `json:"bullet" yaml:"bullet" mapstructure:"bullet"`
	Emoji          bool   `json:"emoji" yaml:"emoji" mapstructure:"emoji"`
	IncludeSummary bool   `json:"include_summary" yaml:"include_summary" mapstructure:"include_summary"`
	Style          Style  `json:"style" yaml:"style" mapstructure:"style"`
}

// Configuration is built once per export run and never mutated.
type Configuration struct {
	DateFormat  DateFormat   `json:"date_format" yaml:"date_format" mapstructure:"date_format"`
	TimeFormat  TimeFormat   `json:"time_format" yaml:"time_format" mapstructure:"time_format"`
	TimeZone    string       `json:"time_zone" yaml:"time_zone" mapstructure:"time_zone"`
	Units       units.System `json:"units" yaml:"units" mapstructure:"units"`
	Frontmatter Frontmatter  `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
	Template    Template     `json:"template" yaml:"template" mapstructure:"template"`
}

// DefaultFrontmatterFields are the metadata fields a Markdown export carries
// out of the box.
var DefaultFrontmatterFields = []string{
	"date",
	"type",
	"sleep_total",
	"steps",
	"active_calories",
	"resting_heart_rate",
	"hrv",
	"weight",
	"workout_count",
	"mood_valence",
}

func Default() Configuration {
	fields := make([]FieldPolicy, 0, len(DefaultFrontmatterFields))
	for _, k := range DefaultFrontmatterFields {
		fields = append(fields, FieldPolicy{Key: k, Enabled: true})
	}
	return Configuration{
		DateFormat: DateISO,
		TimeFormat: Time24h,
		TimeZone:   "UTC",
		Units:      units.Metric,
		Frontmatter: Frontmatter{
			Include: true,
			Fields:  fields,
		},
		Template: Template{
			HeadingLevel:   2,
			Bullet:         "-",
			Emoji:          true,
			IncludeSummary: true,
			Style:          StyleStandard,
		},
	}
}

// Location resolves TimeZone; an empty or unknown zone is UTC.
func (c Configuration) Location() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDate renders d with the configured date pattern.
func (c Configuration) FormatDate(d civil.Date) string {
	return c.DateFormat.Format(d)
}

// FormatTime renders an instant in the configured zone and time pattern.
func (c Configuration) FormatTime(t time.Time) string {
	return t.In(c.Location()).Format(c.TimeFormat.layout())
}

// Validate checks every closed-set option and the field policy.
func (c Configuration) Validate() error {
	if _, ok := dateLayouts[c.DateFormat]; !ok {
		return fmt.Errorf("%w: unknown date_format %q", ErrInvalid, c.DateFormat)
	}
	if _, ok := timeLayouts[c.TimeFormat]; !ok {
		return fmt.Errorf("%w: unknown time_format %q", ErrInvalid, c.TimeFormat)
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("%w: unknown time_zone %q", ErrInvalid, c.TimeZone)
		}
	}
	if _, ok := units.ParseSystem(string(c.Units)); !ok {
		return fmt.Errorf("%w: units must be metric or imperial", ErrInvalid)
	}
	if c.Template.HeadingLevel < 1 || c.Template.HeadingLevel > 3 {
		return fmt.Errorf("%w: heading_level must be between 1 and 3", ErrInvalid)
	}
	switch c.Template.Bullet {
	case "-", "*", "+":
	default:
		return fmt.Errorf("%w: bullet must be one of - * +", ErrInvalid)
	}
	switch c.Template.Style {
	case StyleStandard, StylePlain:
	default:
		return fmt.Errorf("%w: unknown style %q", ErrInvalid, c.Template.Style)
	}

	seen := make(map[string]bool, len(c.Frontmatter.Fields))
	for _, p := range c.Frontmatter.Fields {
		if strings.TrimSpace(p.Key) == "" {
			return fmt.Errorf("%w: frontmatter field key is empty", ErrInvalid)
		}
		if seen[p.Key] {
			return fmt.Errorf("%w: duplicate frontmatter field %q", ErrInvalid, p.Key)
		}
		seen[p.Key] = true
		if !validKey(p.Name()) {
			return fmt.Errorf("%w: invalid output key %q", ErrInvalid, p.Name())
		}
	}
	for k := range c.Frontmatter.Extra {
		if !validKey(k) {
			return fmt.Errorf("%w: invalid extra key %q", ErrInvalid, k)
		}
	}
	return nil
}

// validKey rejects keys that would break a `key: value` metadata line.
func validKey(k string) bool {
	if k == "" || k == "---" {
		return false
	}
	return !strings.ContainsAny(k, ": \t\r\n#")
}
