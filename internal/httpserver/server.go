package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdg312/health-export/internal/auth"
	"github.com/fdg312/health-export/internal/blob"
	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/exports"
	"github.com/fdg312/health-export/internal/reports"
	"github.com/fdg312/health-export/internal/settings"
	"github.com/fdg312/health-export/internal/snapshots"
	"github.com/fdg312/health-export/internal/storage"
	"github.com/fdg312/health-export/internal/storage/memory"
	"github.com/fdg312/health-export/internal/storage/postgres"
)

// Server is the HTTP API server.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Store
	vault          blob.Store
	vaultMode      string
	authMiddleware *auth.Middleware
}

// New builds the server. It fails only when the vault store cannot be
// opened.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()

	vault, mode, err := blob.NewBlobStore(cfg.Blob, log.Default())
	if err != nil {
		s.storage.Close()
		return nil, fmt.Errorf("init vault: %w", err)
	}
	s.vault = vault
	s.vaultMode = mode

	s.routes()
	return s, nil
}

// initStorage opens the memory or Postgres store.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("ERROR storage: postgres connect failed: %v", err)
		log.Println("WARN storage: falling back to in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("INFO storage: postgres connected")
	s.storage = pgStorage
}

// routes registers the API routes.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Prometheus metrics (no auth required)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	authService := auth.NewService(s.config)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	if s.config.AuthMode == "dev" {
		authHandler := auth.NewHandlers(authService)
		s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)
	}

	// Snapshots API
	snapshotService := snapshots.NewService(s.storage, s.config)
	snapshotHandler := snapshots.NewHandler(snapshotService, s.config.Export.SnapshotMaxKB)

	// PUT /v1/snapshots/{date} - store the day's snapshot
	s.mux.HandleFunc("PUT /v1/snapshots/{date}", snapshotHandler.HandlePut)

	// GET /v1/snapshots/{date}
	s.mux.HandleFunc("GET /v1/snapshots/{date}", snapshotHandler.HandleGet)

	// GET /v1/snapshots?from=&to=
	s.mux.HandleFunc("GET /v1/snapshots", snapshotHandler.HandleList)

	// Export settings API
	settingsService := settings.NewService(s.storage, s.config)
	settingsHandler := settings.NewHandler(settingsService)

	// GET /v1/settings/export
	s.mux.HandleFunc("GET /v1/settings/export", settingsHandler.HandleGet)

	// PUT /v1/settings/export
	s.mux.HandleFunc("PUT /v1/settings/export", settingsHandler.HandlePut)

	// Exports API
	exportService := exports.NewService(snapshotService, settingsService, s.storage, s.vault, s.config)
	exportHandler := exports.NewHandlers(exportService)

	// POST /v1/exports - serialize a day and write it into the vault
	s.mux.HandleFunc("POST /v1/exports", exportHandler.HandleRun)

	// POST /v1/exports/preview - same as above without writing
	s.mux.HandleFunc("POST /v1/exports/preview", exportHandler.HandlePreview)

	// GET /v1/exports?limit=
	s.mux.HandleFunc("GET /v1/exports", exportHandler.HandleList)

	// GET /v1/exports/{id}
	s.mux.HandleFunc("GET /v1/exports/{id}", exportHandler.HandleGet)

	// Reports API
	reportService := reports.NewService(snapshotService, settingsService)
	reportHandler := reports.NewHandlers(reportService)

	// GET /v1/reports/day/{file} - file is YYYY-MM-DD.pdf
	s.mux.HandleFunc("GET /v1/reports/day/{file}", reportHandler.HandleDayPDF)

	// GET /v1/reports/range.csv?from=&to=
	s.mux.HandleFunc("GET /v1/reports/range.csv", reportHandler.HandleRangeCSV)
}

// handleHealthz reports server status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"vault":  s.vaultMode,
	})
}

// Handler builds the middleware chain (outermost first): CORS → Rate Limit → Auth → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.Wrap(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start listens on the configured port and blocks.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO server: listening on http://localhost%s", addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", addr)
	log.Printf("INFO server: auth_mode=%s vault=%s", s.config.AuthMode, s.vaultMode)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the store.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
