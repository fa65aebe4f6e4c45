package snapshots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/storage/memory"
	"github.com/fdg312/health-export/internal/userctx"
)

func newTestMux(userID string) http.Handler {
	service := NewService(memory.New(), &config.Config{ReportsMaxRangeDays: 31})
	handler := NewHandler(service, 4)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v1/snapshots/{date}", handler.HandlePut)
	mux.HandleFunc("GET /v1/snapshots/{date}", handler.HandleGet)
	mux.HandleFunc("GET /v1/snapshots", handler.HandleList)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != "" {
			r = r.WithContext(userctx.WithUserID(r.Context(), userID))
		}
		mux.ServeHTTP(w, r)
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(context.Background())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	return resp.Error.Code
}

const sampleBody = `{
	"sleep": {"total_seconds": 27000},
	"heart": {"resting_bpm": 58},
	"mood": [{"time": "2026-03-14T21:00:00Z", "kind": "daily_mood", "valence": 0.5}]
}`

func TestPutGetList(t *testing.T) {
	h := newTestMux("user-a")

	w := do(t, h, http.MethodPut, "/v1/snapshots/2026-03-14", sampleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}
	var summary SnapshotSummary
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary failed: %v", err)
	}
	if summary.Date != "2026-03-14" || strings.Join(summary.Categories, ",") != "sleep,heart,mood" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	w = do(t, h, http.MethodGet, "/v1/snapshots/2026-03-14", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var snap snapshot.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot failed: %v", err)
	}
	if snap.Date.String() != "2026-03-14" || snap.Sleep.Total != 27000 || len(snap.Mood) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	do(t, h, http.MethodPut, "/v1/snapshots/2026-03-12", `{"heart": {"resting_bpm": 60}}`)
	w = do(t, h, http.MethodGet, "/v1/snapshots?from=2026-03-01&to=2026-03-31", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var list ListResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(list.Snapshots) != 2 || list.Snapshots[0].Date != "2026-03-12" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPutValidation(t *testing.T) {
	h := newTestMux("user-a")

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"bad date", "/v1/snapshots/14-03-2026", `{}`, http.StatusBadRequest, "invalid_date"},
		{"mismatch", "/v1/snapshots/2026-03-14", `{"date": "2026-03-15"}`, http.StatusBadRequest, "date_mismatch"},
		{"fraction", "/v1/snapshots/2026-03-14", `{"vitals": {"blood_oxygen": 97}}`, http.StatusBadRequest, "invalid_snapshot"},
		{"valence", "/v1/snapshots/2026-03-14", `{"mood": [{"time": "2026-03-14T21:00:00Z", "kind": "daily_mood", "valence": -2}]}`, http.StatusBadRequest, "invalid_snapshot"},
		{"json", "/v1/snapshots/2026-03-14", `{`, http.StatusBadRequest, "invalid_json"},
		{"too large", "/v1/snapshots/2026-03-14", `{"mood": [` + strings.Repeat(`{"labels": ["calm"]},`, 400) + `{}]}`, http.StatusRequestEntityTooLarge, "payload_too_large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, tt.target, tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d body=%s", tt.status, w.Code, w.Body.String())
			}
			if code := errorCode(t, w); code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, code)
			}
		})
	}
}

func TestGetMissingAndRange(t *testing.T) {
	h := newTestMux("user-a")

	w := do(t, h, http.MethodGet, "/v1/snapshots/2026-03-14", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/v1/snapshots?from=2026-03-14&to=2026-03-01", "")
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_range" {
		t.Fatalf("expected invalid_range")
	}

	w = do(t, h, http.MethodGet, "/v1/snapshots?from=2026-01-01&to=2026-03-01", "")
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "range_too_large" {
		t.Fatalf("expected range_too_large")
	}
}

func TestUnauthorized(t *testing.T) {
	h := newTestMux("")
	w := do(t, h, http.MethodGet, "/v1/snapshots/2026-03-14", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
