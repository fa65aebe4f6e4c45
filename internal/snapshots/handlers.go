package snapshots

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/userctx"
)

// Handler serves the snapshot endpoints.
type Handler struct {
	service  *Service
	maxBytes int64
}

// NewHandler builds a Handler; maxKB limits the request body.
func NewHandler(service *Service, maxKB int) *Handler {
	if maxKB <= 0 {
		maxKB = 512
	}
	return &Handler{service: service, maxBytes: int64(maxKB) * 1024}
}

// HandlePut handles PUT /v1/snapshots/{date}.
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	var snap snapshot.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Snapshot is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	resp, err := h.service.Put(r.Context(), userID, r.PathValue("date"), snap)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	log.Printf("INFO snapshots: stored user=%s date=%s categories=%d", userID, resp.Date, len(resp.Categories))
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/snapshots/{date}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	snap, err := h.service.Get(r.Context(), userID, r.PathValue("date"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HandleList handles GET /v1/snapshots?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.service.List(r.Context(), userID, from, to)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Snapshots: items})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
	case errors.Is(err, ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", "Invalid date range")
	case errors.Is(err, ErrRangeTooLarge):
		writeError(w, http.StatusBadRequest, "range_too_large", err.Error())
	case errors.Is(err, ErrDateMismatch):
		writeError(w, http.StatusBadRequest, "date_mismatch", err.Error())
	case errors.Is(err, snapshot.ErrInvalidSnapshot):
		writeError(w, http.StatusBadRequest, "invalid_snapshot", err.Error())
	case errors.Is(err, ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, "snapshot_not_found", "Snapshot not found")
	default:
		log.Printf("ERROR snapshots: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
