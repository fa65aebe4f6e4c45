package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/health-export/internal/config"
)

func TestCORSMiddleware(t *testing.T) {
	const app = "https://app.example.com"

	tests := []struct {
		name        string
		method      string
		origin      string
		credentials bool
		wantStatus  int
		wantNext    bool
		wantHeaders map[string]string
	}{
		{
			name:       "preflight from allowed origin",
			method:     http.MethodOptions,
			origin:     app,
			wantStatus: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":  app,
				"Access-Control-Allow-Methods": corsAllowMethods,
				"Access-Control-Allow-Headers": corsAllowHeaders,
				"Access-Control-Max-Age":       "600",
			},
		},
		{
			name:       "preflight from unknown origin",
			method:     http.MethodOptions,
			origin:     "https://evil.com",
			wantStatus: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "",
				"Access-Control-Allow-Methods": "",
			},
		},
		{
			name:        "download from allowed origin exposes filename",
			method:      http.MethodGet,
			origin:      app,
			credentials: true,
			wantStatus:  http.StatusOK,
			wantNext:    true,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":      app,
				"Access-Control-Expose-Headers":    "Content-Disposition",
				"Access-Control-Allow-Credentials": "true",
				"Vary":                             "Origin",
			},
		},
		{
			name:       "unknown origin passes without headers",
			method:     http.MethodGet,
			origin:     "https://evil.com",
			wantStatus: http.StatusOK,
			wantNext:   true,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "",
				"Access-Control-Expose-Headers": "",
			},
		},
		{
			name:       "options without origin reaches router",
			method:     http.MethodOptions,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				CORSAllowedOrigins:   []string{" " + app + " ", ""},
				CORSAllowCredentials: tt.credentials,
			}

			called := false
			h := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/v1/reports/range.csv", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
			for k, want := range tt.wantHeaders {
				if got := rr.Header().Get(k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
		})
	}
}
