package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/userctx"
)

// Middleware resolves the calling user and stores it in the request context.
type Middleware struct {
	config  *config.Config
	service *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{
		config:  cfg,
		service: service,
	}
}

// Wrap picks the middleware matching AUTH_MODE and AUTH_REQUIRED.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	switch {
	case m.config.AuthMode != "dev":
		return LocalUser(next)
	case m.config.AuthRequired:
		return m.RequireAuth(next)
	default:
		return m.OptionalAuth(next)
	}
}

// RequireAuth rejects requests without a valid Bearer token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return m.guard(next, false)
}

// OptionalAuth validates the Bearer token only when one is sent. Requests
// without a token run as LocalUserID.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return m.guard(next, true)
}

func (m *Middleware) guard(next http.Handler, anonymousAsLocal bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" && anonymousAsLocal {
			next.ServeHTTP(w, withUser(r, LocalUserID))
			return
		}

		userID, err := m.verifyBearer(header)
		if err != nil {
			msg := "Unauthorized"
			if header != "" {
				msg = "Invalid or expired token"
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", msg)
			return
		}

		if anonymousAsLocal {
			log.Printf("auth token accepted: sub=%s method=%s path=%s", userID, r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, withUser(r, userID))
	})
}

// LocalUser runs every request as LocalUserID. Used when AUTH_MODE=none.
func LocalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, withUser(r, LocalUserID))
	})
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(userctx.WithUserID(r.Context(), userID))
}

func (m *Middleware) verifyBearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return m.service.VerifyJWT(strings.TrimSpace(token))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// /v1/auth/* issues tokens, so it cannot require one.
func isPublicPath(path string) bool {
	switch path {
	case "/healthz", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/v1/auth/")
}
