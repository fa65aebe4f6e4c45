package tracking

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/fdg312/health-export/internal/exportconfig"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
	"github.com/fdg312/health-export/internal/writemode"
)

func ptr[T any](v T) *T { return &v }

func TestEntries(t *testing.T) {
	s := snapshot.Snapshot{
		Date:   civil.Date{Year: 2026, Month: time.March, Day: 14},
		Heart:  snapshot.Heart{Resting: ptr(58.0)},
		Body:   snapshot.Body{Weight: ptr(70.0)},
		Vitals: snapshot.Vitals{BloodOxygen: ptr(0.965)},
	}
	doc := exportconfig.Default()
	doc.Units = units.Imperial
	cfg := Config{Enabled: true, Metrics: []string{"weight", "hrv", "resting_heart_rate", "blood_oxygen"}}

	files := Entries(s, cfg, doc)
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3 (hrv absent)", len(files))
	}

	if files[0].Path != "Health/Metrics/Weight/2026-03-14.md" {
		t.Errorf("path = %q", files[0].Path)
	}
	wantWeight := "---\ndate: 2026-03-14\nmetric: weight\nvalue: 154.3\nunit: lb\n---\n- **Weight:** 154.3 lb\n"
	if files[0].Content != wantWeight {
		t.Errorf("weight content = %q", files[0].Content)
	}
	if files[1].Path != "Health/Metrics/Resting Heart Rate/2026-03-14.md" {
		t.Errorf("path = %q", files[1].Path)
	}
	wantOxygen := "---\ndate: 2026-03-14\nmetric: blood_oxygen\nvalue: 96.5\nunit: percent\n---\n- **Blood Oxygen:** 97%\n"
	if files[2].Content != wantOxygen {
		t.Errorf("oxygen content = %q", files[2].Content)
	}
}

func TestEntriesDisabled(t *testing.T) {
	s := snapshot.Snapshot{Heart: snapshot.Heart{Resting: ptr(58.0)}}
	if got := Entries(s, Config{Metrics: []string{"resting_heart_rate"}}, exportconfig.Default()); got != nil {
		t.Fatalf("expected no files when disabled, got %v", got)
	}
}

func TestFileResolve(t *testing.T) {
	f := File{Path: "x.md", Content: "new"}
	if got := f.Resolve(writemode.Found("old"), writemode.Update); got.Content != "new" || got.Applied != writemode.Overwrite {
		t.Fatalf("update = %+v", got)
	}
	if got := f.Resolve(writemode.Found("old"), writemode.Append); got.Content != "old\n\nnew" {
		t.Fatalf("append = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Metrics: []string{"steps"}, Folder: "Tracking"}).Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if err := (Config{Metrics: []string{"mood_swings"}}).Validate(); err == nil {
		t.Fatal("expected error for unknown metric")
	}
	if err := (Config{Folder: "../outside"}).Validate(); err == nil {
		t.Fatal("expected error for escaping folder")
	}
}
