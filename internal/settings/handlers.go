package settings

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fdg312/health-export/internal/userctx"
)

// maxSettingsBody caps PUT /v1/settings/export bodies.
const maxSettingsBody = 64 << 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/settings/export.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetOrDefault(r.Context(), userID)
	if err != nil {
		internalError(w, "get", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePut handles PUT /v1/settings/export. The body is decoded over the
// defaults, so omitted fields keep their default values.
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req := h.service.Defaults()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Settings body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	updated, err := h.service.Upsert(r.Context(), userID, req)
	switch {
	case errors.Is(err, ErrInvalidSettings):
		writeError(w, http.StatusBadRequest, "invalid_settings", err.Error())
	case err != nil:
		internalError(w, "upsert", userID, err)
	default:
		writeJSON(w, http.StatusOK, SettingsResponse{Settings: updated})
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	}
	return userID, ok
}

func internalError(w http.ResponseWriter, op, userID string, err error) {
	log.Printf("ERROR settings: op=%s user=%s err=%v", op, userID, err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
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
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
