package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleDevAuth handles POST /v1/auth/dev. The body is optional.
func (h *Handlers) HandleDevAuth(w http.ResponseWriter, r *http.Request) {
	var req DevAuthRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
			return
		}
	}

	resp, err := h.service.SignInDev(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidUserID) {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must not contain slashes")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	log.Printf("INFO auth: dev token issued sub=%s", resp.UserID)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
