package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/venuedesk-api/internal/pkg/jwt"
)

func TestAuthPassesClaimsToHandler(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	userID := uuid.New()

	var gotUser uuid.UUID
	var gotRole string
	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := jwtService.GenerateAccessToken(userID, "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != userID {
		t.Errorf("user in context = %s, want %s", gotUser, userID)
	}
	if gotRole != "manager" {
		t.Errorf("role in context = %q, want manager", gotRole)
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	otherService := jwt.NewService("other-secret", time.Hour)
	expiredService := jwt.NewService("test-secret", -time.Minute)

	foreign, err := otherService.GenerateAccessToken(uuid.New(), "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	expired, err := expiredService.GenerateAccessToken(uuid.New(), "manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + foreign},
		{"expired token", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	handler := Auth(jwtService)(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	do := func(role string) int {
		token, err := jwtService.GenerateAccessToken(uuid.New(), role)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("admin"); code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", code)
	}
	if code := do("manager"); code != http.StatusForbidden {
		t.Errorf("manager status = %d, want 403", code)
	}
}
