package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/auth"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
)

type memoryStore struct {
	mu       sync.Mutex
	users    map[string]auth.User
	profiles map[string]auth.Profile
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]auth.User{}, profiles: map[string]auth.Profile{}}
}

func (m *memoryStore) CreateAccount(_ context.Context, user auth.User, profile auth.Profile) (auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return auth.Profile{}, auth.ErrEmailTaken
	}
	m.users[user.Email] = user
	m.profiles[profile.ID] = profile
	return profile, nil
}

func (m *memoryStore) FindUserByEmail(_ context.Context, email string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (m *memoryStore) GetProfile(_ context.Context, id string) (auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return auth.Profile{}, auth.ErrProfileNotFound
}

func (m *memoryStore) GetProfileByUserID(_ context.Context, userID string) (auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return auth.Profile{}, auth.ErrProfileNotFound
}

func (m *memoryStore) FindProfileByEmail(_ context.Context, email string) (auth.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return auth.Profile{}, auth.ErrProfileNotFound
}

func newRouter() (http.Handler, *auth.Service) {
	svc := auth.NewService(newMemoryStore(), "test-secret", time.Hour)
	r := chi.NewRouter()
	r.Use(middleware.Auth(svc))
	NewHandler(svc).RegisterRoutes(r)
	return r, svc
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestSignUpLoginAndMe(t *testing.T) {
	router, _ := newRouter()

	rec, env := call(t, router, http.MethodPost, "/auth/signup", "", `{"email":"Ana@Example.com","password":"Password123","fullName":"Ana","role":"employer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Data.(map[string]any)["email"] != "ana@example.com" {
		t.Fatalf("expected normalized email, got %v", env.Data)
	}

	rec, env = call(t, router, http.MethodPost, "/auth/login", "", `{"email":"ana@example.com","password":"Password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	token := env.Data.(map[string]any)["accessToken"].(string)

	rec, env = call(t, router, http.MethodGet, "/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Data.(map[string]any)["role"] != "employer" {
		t.Fatalf("unexpected profile %v", env.Data)
	}
}

func TestSignUpValidation(t *testing.T) {
	router, _ := newRouter()
	rec, env := call(t, router, http.MethodPost, "/auth/signup", "", `{"email":"","password":"","fullName":"","role":"boss"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := env.Error.Details.(map[string]any)["fields"].([]any)
	if len(fields) != 4 {
		t.Fatalf("expected 4 issues, got %v", fields)
	}

	rec, env = call(t, router, http.MethodPost, "/auth/signup", "", `{"email":"a@example.com","password":"short","fullName":"A","role":"worker"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "invalid_signup" {
		t.Fatalf("expected invalid_signup, got %d %+v", rec.Code, env.Error)
	}
}

func TestLogoutAndAnonymousMe(t *testing.T) {
	router, _ := newRouter()
	rec, env := call(t, router, http.MethodPost, "/auth/logout", "", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected logout to succeed, got %d", rec.Code)
	}
	rec, _ = call(t, router, http.MethodGet, "/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
