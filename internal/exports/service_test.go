package exports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/fdg312/health-export/internal/blob"
	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/settings"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/snapshots"
	"github.com/fdg312/health-export/internal/storage/memory"
	"github.com/fdg312/health-export/internal/writemode"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	service  *Service
	store    *memory.MemoryStorage
	vault    blob.Store
	settings *settings.Service
}

func newFixture(t *testing.T, cfg *config.Config) fixture {
	t.Helper()
	vault, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return newFixtureWithVault(t, cfg, vault)
}

func newFixtureWithVault(t *testing.T, cfg *config.Config, vault blob.Store) fixture {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	store := memory.New()
	snaps := snapshots.NewService(store, cfg)
	prefs := settings.NewService(store, cfg)

	day := civil.Date{Year: 2026, Month: time.March, Day: 14}
	_, err := snaps.Put(context.Background(), "user-a", day.String(), snapshot.Snapshot{
		Date:  day,
		Sleep: snapshot.Sleep{Total: 27000},
		Heart: snapshot.Heart{Resting: ptr(58.0)},
	})
	if err != nil {
		t.Fatalf("Put snapshot: %v", err)
	}

	return fixture{
		service:  NewService(snaps, prefs, store, vault, cfg),
		store:    store,
		vault:    vault,
		settings: prefs,
	}
}

func (f fixture) read(t *testing.T, key string) string {
	t.Helper()
	data, err := f.vault.GetObject(context.Background(), key)
	if err != nil {
		t.Fatalf("GetObject(%s): %v", key, err)
	}
	return string(data)
}

func TestRunWritesDailyNote(t *testing.T) {
	f := newFixture(t, nil)

	run, err := f.service.Run(context.Background(), "user-a", RunRequest{Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Path != "Health/2026-03-14.md" {
		t.Errorf("path = %q", run.Path)
	}
	if run.Status != StatusOK || run.AppliedMode != "update" || run.FellBack {
		t.Errorf("unexpected run: %+v", run)
	}

	content := f.read(t, run.Path)
	if !strings.Contains(content, "- **Total Sleep:** 7h 30m") {
		t.Errorf("note is missing sleep:\n%s", content)
	}
	if int64(len(content)) != run.SizeBytes {
		t.Errorf("size_bytes = %d, file has %d", run.SizeBytes, len(content))
	}
}

func TestRunUpdateKeepsUserSections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	existing := "# My day\n\n## 😴 Sleep\n\n- stale\n\n## Journal\n\nwent hiking\n"
	if _, err := f.vault.PutObject(ctx, "Health/2026-03-14.md", []byte(existing), "text/markdown"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := f.service.Run(ctx, "user-a", RunRequest{Date: "2026-03-14"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	content := f.read(t, "Health/2026-03-14.md")
	if strings.Contains(content, "stale") {
		t.Errorf("sleep section was not replaced:\n%s", content)
	}
	if !strings.Contains(content, "## Journal\n\nwent hiking") {
		t.Errorf("user section lost:\n%s", content)
	}
	if strings.Index(content, "Sleep") > strings.Index(content, "Journal") {
		t.Errorf("existing section order changed:\n%s", content)
	}
}

func TestRunUpdateFallsBackForJSON(t *testing.T) {
	f := newFixture(t, nil)

	run, err := f.service.Run(context.Background(), "user-a", RunRequest{Date: "2026-03-14", Format: ptr("json")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Path != "Health/2026-03-14.json" {
		t.Errorf("path = %q", run.Path)
	}
	if run.RequestedMode != "update" || run.AppliedMode != "overwrite" || !run.FellBack {
		t.Errorf("expected update fallback, got %+v", run)
	}
}

func TestRunAppend(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	req := RunRequest{Date: "2026-03-14", WriteMode: ptr("append")}

	if _, err := f.service.Run(ctx, "user-a", req); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := f.read(t, "Health/2026-03-14.md")
	if _, err := f.service.Run(ctx, "user-a", req); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := f.read(t, "Health/2026-03-14.md"); got != first+"\n\n"+first {
		t.Fatalf("append result:\n%s", got)
	}
}

func TestRunConcurrentAppendsAreSerialized(t *testing.T) {
	f := newFixture(t, nil)
	req := RunRequest{Date: "2026-03-14", WriteMode: ptr("append")}

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.Run(context.Background(), "user-a", req); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Run: %v", err)
	}

	content := f.read(t, "Health/2026-03-14.md")
	if got := strings.Count(content, "# Health Data"); got != n {
		t.Fatalf("expected %d appended notes, found %d", n, got)
	}
	if size := f.service.locks.size(); size != 0 {
		t.Fatalf("path locks leaked: %d", size)
	}
}

func TestRunCategoriesOverride(t *testing.T) {
	f := newFixture(t, nil)

	run, err := f.service.Run(context.Background(), "user-a", RunRequest{
		Date:       "2026-03-14",
		Format:     ptr("csv"),
		Categories: []string{"heart"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	content := f.read(t, run.Path)
	if strings.Contains(content, "Sleep") || !strings.Contains(content, "Resting Heart Rate") {
		t.Fatalf("filter not applied:\n%s", content)
	}
}

func TestRunWritesTrackingFiles(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	prefs := settings.Defaults()
	prefs.Tracking.Enabled = true
	prefs.Tracking.Metrics = []string{"resting_heart_rate", "weight"}
	if _, err := f.settings.Upsert(ctx, "user-a", prefs); err != nil {
		t.Fatalf("Upsert settings: %v", err)
	}

	run, err := f.service.Run(ctx, "user-a", RunRequest{Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "Health/Metrics/Resting Heart Rate/2026-03-14.md"
	if len(run.TrackedFiles) != 1 || run.TrackedFiles[0] != want {
		t.Fatalf("tracked = %v", run.TrackedFiles)
	}
	if got := f.read(t, want); !strings.Contains(got, "metric: resting_heart_rate\nvalue: 58\n") {
		t.Fatalf("tracking file:\n%s", got)
	}
}

func TestRunPerUserVault(t *testing.T) {
	f := newFixture(t, &config.Config{Export: config.ExportConfig{PerUserVault: true}})

	run, err := f.service.Run(context.Background(), "user-a", RunRequest{Date: "2026-03-14"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Path != "users/user-a/Health/2026-03-14.md" {
		t.Fatalf("path = %q", run.Path)
	}
}

func TestRunErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RunRequest
		want error
	}{
		{"bad date", RunRequest{Date: "14.03.2026"}, snapshots.ErrInvalidDate},
		{"no snapshot", RunRequest{Date: "2026-03-15"}, snapshots.ErrSnapshotNotFound},
		{"bad format", RunRequest{Date: "2026-03-14", Format: ptr("pdf")}, ErrInvalidRequest},
		{"bad mode", RunRequest{Date: "2026-03-14", WriteMode: ptr("merge")}, ErrInvalidRequest},
		{"bad category", RunRequest{Date: "2026-03-14", Categories: []string{"sleep", "dreams"}}, ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.service.Run(ctx, "user-a", tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := f.service.Run(ctx, "user-b", RunRequest{Date: "2026-03-14"}); !errors.Is(err, snapshots.ErrSnapshotNotFound) {
		t.Fatalf("other user's snapshot must not be visible, err = %v", err)
	}
}

func TestPreviewDoesNotWrite(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	preview, err := f.service.Preview(ctx, "user-a", RunRequest{Date: "2026-03-14", Format: ptr("properties")})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Exists || !preview.FellBack || preview.AppliedMode != string(writemode.Overwrite) {
		t.Errorf("unexpected preview: %+v", preview)
	}
	if !strings.HasPrefix(preview.Content, "---\n") {
		t.Errorf("properties preview should start with metadata:\n%s", preview.Content)
	}
	if _, err := f.vault.GetObject(ctx, preview.Path); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("preview wrote %s (err=%v)", preview.Path, err)
	}

	runs, err := f.service.ListRuns(ctx, "user-a", 0)
	if err != nil || len(runs) != 0 {
		t.Fatalf("preview recorded a run: %v %v", runs, err)
	}
}

type failingVault struct {
	blob.Store
}

func (failingVault) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	return 0, fmt.Errorf("disk full")
}

func TestRunRecordsFailedWrite(t *testing.T) {
	local, err := blob.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	f := newFixtureWithVault(t, nil, failingVault{Store: local})
	ctx := context.Background()

	if _, err := f.service.Run(ctx, "user-a", RunRequest{Date: "2026-03-14"}); !errors.Is(err, ErrVaultWrite) {
		t.Fatalf("err = %v, want ErrVaultWrite", err)
	}

	runs, err := f.service.ListRuns(ctx, "user-a", 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != StatusFailed || runs[0].Error == nil {
		t.Fatalf("expected one failed run, got %+v", runs)
	}

	got, err := f.service.GetRun(ctx, "user-a", runs[0].ID)
	if err != nil || got.ID != runs[0].ID {
		t.Fatalf("GetRun = %+v, %v", got, err)
	}
	if _, err := f.service.GetRun(ctx, "user-b", runs[0].ID); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("foreign run must be hidden, err = %v", err)
	}
}

func TestListRunsHistoryLimit(t *testing.T) {
	f := newFixture(t, &config.Config{Export: config.ExportConfig{HistoryLimit: 2}})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.service.Run(ctx, "user-a", RunRequest{Date: "2026-03-14"}); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	runs, err := f.service.ListRuns(ctx, "user-a", 100)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
