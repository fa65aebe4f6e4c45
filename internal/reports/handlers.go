package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/health-export/internal/snapshots"
	"github.com/fdg312/health-export/internal/userctx"
)

// Handlers handles HTTP requests for reports
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDayPDF handles GET /v1/reports/day/{file}, where file is YYYY-MM-DD.pdf
func (h *Handlers) HandleDayPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	date, ok := strings.CutSuffix(r.PathValue("file"), ".pdf")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Only .pdf day reports are available")
		return
	}

	data, err := h.service.DayPDF(r.Context(), userID, date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	serve(w, data, "application/pdf", fmt.Sprintf("health_%s.pdf", date))
}

// HandleRangeCSV handles GET /v1/reports/range.csv?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handlers) HandleRangeCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "Missing required parameters")
		return
	}

	data, err := h.service.RangeCSV(r.Context(), userID, from, to)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	serve(w, data, "text/csv; charset=utf-8", fmt.Sprintf("health_%s_%s.csv", from, to))
}

func serve(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(data)), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, snapshots.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format, use YYYY-MM-DD")
	case errors.Is(err, snapshots.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", "From date must be before to date")
	case errors.Is(err, snapshots.ErrRangeTooLarge):
		writeError(w, http.StatusBadRequest, "range_too_large", err.Error())
	case errors.Is(err, snapshots.ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, "snapshot_not_found", "No snapshot stored for this date")
	default:
		log.Printf("ERROR reports: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
