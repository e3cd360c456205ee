package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/status"
	"laborpay/internal/requestctx"
	"laborpay/internal/transport/http/api"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: contract from draft to active", status.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{fmt.Errorf("%w: %w", status.ErrPreconditionFailed, status.ErrRoleNotAllowed), http.StatusForbidden, "role_not_allowed"},
		{fmt.Errorf("%w: %w", status.ErrPreconditionFailed, status.ErrSignatureRequired), http.StatusConflict, "signature_required"},
		{fmt.Errorf("%w: %w", status.ErrUnauthenticated, errors.New("no token")), http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("%w: %w", status.ErrPersistence, contracts.ErrNotFound), http.StatusNotFound, "contract_not_found"},
		{fmt.Errorf("%w: db down", status.ErrPersistence), http.StatusInternalServerError, "persistence_failed"},
		{status.ErrStaleStatus, http.StatusConflict, "stale_status"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got, code := StatusFor(tc.err)
		if got != tc.status || code != tc.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tc.err, tc.status, tc.code, got, code)
		}
	}
}

func TestWriteErrorValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contracts", nil)
	req = req.WithContext(requestctx.WithRequestID(req.Context(), "req-1"))
	WriteError(rec, req, &contracts.ValidationError{Issues: []contracts.Issue{{Field: "salary", Reason: "must be at least the minimum wage"}}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "validation_error" || env.RequestID != "req-1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	fields := env.Error.Details.(map[string]any)["fields"].([]any)
	if fields[0].(map[string]any)["field"] != "salary" {
		t.Fatalf("unexpected details %v", env.Error.Details)
	}
}

func TestWriteErrorHidesServerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "internal server error" {
		t.Fatalf("leaked message %q", env.Error.Message)
	}
}
