package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func serve(t *testing.T, h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouter_Routes(t *testing.T) {
	router := setupRouter(testDeps(testConfig()))

	tests := []struct {
		name     string
		method   string
		path     string
		userID   string
		body     string
		wantCode int
		wantErr  string
	}{
		{"healthz", http.MethodGet, "/healthz", "", "", http.StatusOK, ""},
		{"readyz", http.MethodGet, "/readyz", "", "", http.StatusOK, ""},
		{"hello", http.MethodGet, "/", "", "", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK, ""},
		{"create_user", http.MethodPost, "/api/v1/users", "user-1", `{"email":"ada@example.com"}`, http.StatusCreated, ""},
		{"get_user", http.MethodGet, "/api/v1/users/me", "user-1", "", http.StatusOK, ""},
		{"patch_user", http.MethodPatch, "/api/v1/users/me", "user-1", `{"first_name":"Ada"}`, http.StatusOK, ""},
		{"put_email", http.MethodPut, "/api/v1/users/me/email", "user-1", `{"value":"new@example.com"}`, http.StatusOK, ""},
		{"put_first_name", http.MethodPut, "/api/v1/users/me/first-name", "user-1", `{"value":"Grace"}`, http.StatusOK, ""},
		{"put_last_name", http.MethodPut, "/api/v1/users/me/last-name", "user-1", `{"value":"Hopper"}`, http.StatusOK, ""},
		{"delete_user", http.MethodDelete, "/api/v1/users/me", "user-1", "", http.StatusOK, ""},
		{"list_jobs", http.MethodGet, "/api/v1/jobs", "user-1", "", http.StatusOK, ""},
		{"create_job", http.MethodPost, "/api/v1/jobs", "user-1", `{"title":"Engineer","company":"Acme","application_link":"https://acme.example/1"}`, http.StatusCreated, ""},
		{"get_job", http.MethodGet, "/api/v1/jobs/1", "user-1", "", http.StatusOK, ""},
		{"patch_job", http.MethodPatch, "/api/v1/jobs/1", "user-1", `{"title":"Staff Engineer"}`, http.StatusOK, ""},
		{"put_status", http.MethodPut, "/api/v1/jobs/1/status", "user-1", `{"status":"accepted"}`, http.StatusOK, ""},
		{"delete_job", http.MethodDelete, "/api/v1/jobs/1", "user-1", "", http.StatusNoContent, ""},
		{"no_identity", http.MethodGet, "/api/v1/users/me", "", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"throttled", http.MethodGet, "/api/v1/jobs", throttledCaller, "", http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown_route", http.MethodGet, "/nope", "", "", http.StatusNotFound, "NOT_FOUND"},
		{"wrong_method", http.MethodPost, "/healthz", "", "", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"body_too_large", http.MethodPost, "/api/v1/jobs", "user-1", `{"title":"` + strings.Repeat("x", 5000) + `"}`, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, tt.method, tt.path, tt.userID, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantErr == "" {
				return
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.wantErr {
				t.Fatalf("expected code %s, got %s", tt.wantErr, body.Code)
			}
		})
	}
}

func TestSetupRouter_GlobalHeaders(t *testing.T) {
	router := setupRouter(testDeps(testConfig()))

	rec := serve(t, router, http.MethodGet, "/api/v1/jobs", "user-1", "")

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS outside development")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("expected rate limit header 60, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestSetupRouter_CustomIdentityHeader(t *testing.T) {
	cfg := testConfig()
	cfg.IdentityHeader = "X-Forwarded-User"
	router := setupRouter(testDeps(cfg))

	rec := serve(t, router, http.MethodGet, "/api/v1/users/me", "user-1", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("default header must be ignored, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("X-Forwarded-User", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with custom header, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSetupRouter_WithoutRedis(t *testing.T) {
	deps := testDeps(testConfig())
	deps.Cache = nil
	deps.Limiter = nil
	router := setupRouter(deps)

	rec := serve(t, router, http.MethodGet, "/api/v1/jobs", throttledCaller, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rate limiting must be off without a limiter, got %d", rec.Code)
	}

	rec = serve(t, router, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz must pass with redis disabled, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("expected redis disabled check, got %s", rec.Body.String())
	}
}
