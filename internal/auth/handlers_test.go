package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/userctx"
)

func testConfig() *config.Config {
	return &config.Config{
		AuthMode:      "dev",
		AuthRequired:  true,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "health-export-test",
		JWTTTLMinutes: 60,
	}
}

func TestHandleDevAuth(t *testing.T) {
	service := NewService(testConfig())
	handler := NewHandlers(service)

	t.Run("DefaultUser", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp DevAuthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("expected access_token not empty")
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("expected token_type Bearer, got %q", resp.TokenType)
		}
		if resp.ExpiresIn != int64((30 * 24 * time.Hour).Seconds()) {
			t.Errorf("expected expires_in 2592000, got %d", resp.ExpiresIn)
		}
		if sub, err := service.VerifyJWT(resp.AccessToken); err != nil || sub != DevUserID {
			t.Errorf("token sub = %q, err = %v", sub, err)
		}
	})

	t.Run("ExplicitUser", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", strings.NewReader(`{"user_id":"alice"}`))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		var resp DevAuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.UserID != "alice" {
			t.Fatalf("expected user_id alice, got %q", resp.UserID)
		}
	})

	t.Run("InvalidUser", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", strings.NewReader(`{"user_id":"../etc"}`))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}

func TestMiddlewareAuth(t *testing.T) {
	cfg := testConfig()
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := service.generateJWT("test_user_123")
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/exports", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		var calledNext bool
		handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calledNext = true
			userID, ok := userctx.GetUserID(r.Context())
			if !ok || userID != "test_user_123" {
				t.Errorf("expected user_id in context")
			}
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !calledNext || w.Code != http.StatusOK {
			t.Errorf("expected next handler with 200, got called=%v status=%d", calledNext, w.Code)
		}
	})

	for name, header := range map[string]string{
		"MissingToken": "",
		"InvalidToken": "Bearer invalid_token",
		"NotBearer":    "Basic dXNlcjpwYXNz",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/exports", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("should not call next handler")
			}))

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}
		})
	}

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewService(&config.Config{JWTSecret: cfg.JWTSecret, JWTIssuer: "someone-else", JWTTTLMinutes: 5})
		token, err := other.generateJWT("test_user_123")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := service.VerifyJWT(token); err == nil {
			t.Fatal("expected token from another issuer to be rejected")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := service.generateJWTWithTTL("test_user_123", -time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := service.VerifyJWT(token); err == nil {
			t.Fatal("expected expired token to be rejected")
		}
	})
}

func TestLocalUserWhenAuthDisabled(t *testing.T) {
	cfg := &config.Config{AuthMode: "none"}
	middleware := NewMiddleware(cfg, NewService(cfg))

	req := httptest.NewRequest("GET", "/v1/exports", nil)
	w := httptest.NewRecorder()

	var gotUser string
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = userctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK || gotUser != LocalUserID {
		t.Fatalf("expected local user with 200, got user=%q status=%d", gotUser, w.Code)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRequired = false
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	t.Run("NoTokenRunsAsLocalUser", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/exports", nil)
		w := httptest.NewRecorder()

		var gotUser string
		handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = userctx.GetUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK || gotUser != LocalUserID {
			t.Fatalf("expected local user with 200, got user=%q status=%d", gotUser, w.Code)
		}
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/exports", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()

		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("DevAuthPathAlwaysAccessible", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()

		var called bool
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected /v1/auth/dev passthrough, called=%v status=%d", called, w.Code)
		}
	})
}
