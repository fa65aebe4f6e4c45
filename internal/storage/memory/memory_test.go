package memory

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/health-export/internal/storage"
	"github.com/google/uuid"
)

func TestSnapshotsUpsertAndList(t *testing.T) {
	ctx := context.Background()
	m := New()

	for _, d := range []string{"2026-03-15", "2026-03-13", "2026-03-14"} {
		if _, err := m.UpsertSnapshot(ctx, "user-a", d, []byte(`{"date":"`+d+`"}`)); err != nil {
			t.Fatalf("UpsertSnapshot(%s) failed: %v", d, err)
		}
	}
	if _, err := m.UpsertSnapshot(ctx, "user-b", "2026-03-14", []byte(`{}`)); err != nil {
		t.Fatalf("UpsertSnapshot failed: %v", err)
	}

	first, _, _ := m.GetSnapshot(ctx, "user-a", "2026-03-14")
	updated, err := m.UpsertSnapshot(ctx, "user-a", "2026-03-14", []byte(`{"v":2}`))
	if err != nil {
		t.Fatalf("UpsertSnapshot failed: %v", err)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at to survive upsert")
	}
	if string(updated.Payload) != `{"v":2}` {
		t.Fatalf("payload = %s", updated.Payload)
	}

	rows, err := m.ListSnapshots(ctx, "user-a", "2026-03-14", "2026-03-15")
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Date != "2026-03-14" || rows[1].Date != "2026-03-15" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if _, ok, _ := m.GetSnapshot(ctx, "user-b", "2026-03-15"); ok {
		t.Fatalf("expected snapshot of another day to be missing")
	}
}

func TestExportRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := New()
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := &storage.ExportRun{OwnerUserID: "user-a", Path: "Health/a.md", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := m.CreateExportRun(ctx, run); err != nil {
			t.Fatalf("CreateExportRun failed: %v", err)
		}
		if run.ID == uuid.Nil {
			t.Fatalf("expected id to be assigned")
		}
	}
	other := &storage.ExportRun{OwnerUserID: "user-b"}
	_ = m.CreateExportRun(ctx, other)

	runs, err := m.ListExportRuns(ctx, "user-a", 2)
	if err != nil {
		t.Fatalf("ListExportRuns failed: %v", err)
	}
	if len(runs) != 2 || !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	if _, ok, _ := m.GetExportRun(ctx, "user-a", other.ID); ok {
		t.Fatalf("expected run of another user to be hidden")
	}
}

func TestSettingsUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := New()

	if _, ok, err := m.GetSettings(ctx, "user-a"); err != nil || ok {
		t.Fatalf("expected no settings, got ok=%v err=%v", ok, err)
	}

	payload := []byte(`{"format":"markdown"}`)
	first, err := m.UpsertSettings(ctx, " user-a ", payload)
	if err != nil {
		t.Fatalf("UpsertSettings failed: %v", err)
	}
	payload[2] = 'X'

	got, ok, err := m.GetSettings(ctx, "user-a")
	if err != nil || !ok {
		t.Fatalf("GetSettings: ok=%v err=%v", ok, err)
	}
	if string(got.Payload) != `{"format":"markdown"}` {
		t.Fatalf("stored payload changed through caller slice: %s", got.Payload)
	}
	got.Payload[2] = 'Y'

	second, err := m.UpsertSettings(ctx, "user-a", []byte(`{"format":"json"}`))
	if err != nil {
		t.Fatalf("UpsertSettings failed: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update")
	}
	again, _, _ := m.GetSettings(ctx, "user-a")
	if string(again.Payload) != `{"format":"json"}` {
		t.Errorf("unexpected payload %s", again.Payload)
	}
}
