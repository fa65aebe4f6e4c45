// Package tracking writes one small note per tracked metric per day, next to
// the daily note, so a single metric can be charted across days.
package tracking

import (
	"fmt"
	"path"
	"strings"

	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
	"github.com/fdg312/health-export/internal/writemode"
)

const DefaultFolder = "Health/Metrics"

type Config struct {
	Enabled bool     `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Folder  string   `json:"folder,omitempty" yaml:"folder,omitempty" mapstructure:"folder"`
	Metrics []string `json:"metrics,omitempty" yaml:"metrics,omitempty" mapstructure:"metrics"`
}

// Validate rejects unknown metric keys and folders escaping the vault.
func (c Config) Validate() error {
	for _, k := range c.Metrics {
		if _, _, ok := export.MetricByKey(k); !ok {
			return fmt.Errorf("unknown tracked metric %q", k)
		}
	}
	if strings.HasPrefix(c.Folder, "/") || strings.Contains(c.Folder, "..") {
		return fmt.Errorf("tracking folder must be relative to the vault")
	}
	return nil
}

func (c Config) folder() string {
	if f := strings.Trim(c.Folder, "/ "); f != "" {
		return f
	}
	return DefaultFolder
}

// File is one generated entry.
type File struct {
	Path    string
	Content string
}

// Resolve applies the write mode to this entry. Entries have no sections, so
// Update behaves like Overwrite.
func (f File) Resolve(existing writemode.Existing, mode writemode.Mode) writemode.Result {
	return writemode.Resolve(existing, f.Content, mode, export.FormatProperties)
}

// Entries builds the files for every tracked metric present in s, in the
// configured order. Metrics without a value that day produce nothing.
func Entries(s snapshot.Snapshot, c Config, doc exportconfig.Configuration) []File {
	if !c.Enabled || len(c.Metrics) == 0 {
		return nil
	}
	present := make(map[string]export.Reading)
	for _, r := range export.AllReadings(&s) {
		present[r.Key] = r
	}

	files := make([]File, 0, len(c.Metrics))
	for _, key := range c.Metrics {
		r, ok := present[key]
		if !ok {
			continue
		}
		q := r.Quantity(doc.Units)
		var b strings.Builder
		b.WriteString("---\n")
		b.WriteString("date: " + s.Date.String() + "\n")
		b.WriteString("metric: " + r.Key + "\n")
		b.WriteString("value: " + units.FormatNumber(q.Value) + "\n")
		if q.Unit != "" {
			b.WriteString("unit: " + quoteUnit(q.Unit) + "\n")
		}
		b.WriteString("---\n")
		b.WriteString(doc.Template.Bullet + " **" + r.Label + ":** " + r.Display(doc.Units) + "\n")

		files = append(files, File{
			Path:    path.Join(c.folder(), pathSafe(r.Label), s.Date.String()+".md"),
			Content: b.String(),
		})
	}
	return files
}

func pathSafe(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(s)
}

// quoteUnit keeps units such as "°C" or "mL/kg/min" readable as YAML strings.
func quoteUnit(u string) string {
	if strings.ContainsAny(u, "%:#") {
		return `"` + u + `"`
	}
	return u
}
