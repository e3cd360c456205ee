package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"laborpay/internal/domain/auth"
)

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	secret := "test-secret"
	svc := auth.NewService(nil, secret, time.Hour)
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", ProfileID: "p1", Email: "ana@example.com", Role: auth.RoleEmployer}, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(svc)(RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		if identity.UserID != "u1" || identity.Email != "ana@example.com" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	svc := auth.NewService(nil, "secret", time.Hour)
	handler := Auth(svc)(RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})))

	for _, header := range []string{"", "Basic abc", "Bearer not-a-jwt", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}
