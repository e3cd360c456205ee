package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/status"
	"laborpay/internal/requestctx"
	"laborpay/internal/transport/http/api"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is ordered: the first match wins, so specific causes come
// before the broader kinds that wrap them.
var errorMappings = []errorMapping{
	{status.ErrStaleStatus, http.StatusConflict, "stale_status"},
	{status.ErrSignatureRequired, http.StatusConflict, "signature_required"},
	{status.ErrRoleNotAllowed, http.StatusForbidden, "role_not_allowed"},
	{status.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{payments.ErrContractUnverified, http.StatusForbidden, "contract_unverified"},

	{contracts.ErrNotFound, http.StatusNotFound, "contract_not_found"},
	{payments.ErrNotFound, http.StatusNotFound, "payment_not_found"},
	{notifications.ErrNotFound, http.StatusNotFound, "notification_not_found"},
	{contracts.ErrForbidden, http.StatusForbidden, "forbidden"},
	{payments.ErrForbidden, http.StatusForbidden, "forbidden"},
	{contracts.ErrEmployerOnly, http.StatusForbidden, "employer_only"},
	{payments.ErrEmployerOnly, http.StatusForbidden, "employer_only"},
	{contracts.ErrWorkerNotFound, http.StatusUnprocessableEntity, "worker_not_found"},
	{contracts.ErrNotAWorker, http.StatusUnprocessableEntity, "not_a_worker"},
	{contracts.ErrNotSignable, http.StatusConflict, "not_signable"},
	{contracts.ErrInvalidContract, http.StatusBadRequest, "validation_error"},
	{payments.ErrInvalidPayment, http.StatusBadRequest, "invalid_payment"},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrNoSession, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{auth.ErrInvalidSignUp, http.StatusBadRequest, "invalid_signup"},
	{auth.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},

	{status.ErrMissingIdentifier, http.StatusBadRequest, "missing_identifier"},
	{status.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{status.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
	{status.ErrProfileUnresolved, http.StatusForbidden, "profile_unresolved"},
	{status.ErrPreconditionFailed, http.StatusForbidden, "precondition_failed"},
	{auth.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{status.ErrPersistence, http.StatusInternalServerError, "persistence_failed"},
}

// StatusFor returns the HTTP status and envelope code for err.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// WriteError writes the envelope for a domain error. Server errors are logged
// and their text is not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	code, name := StatusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, code, name, "internal server error", requestID)
		return
	}

	var invalid *contracts.ValidationError
	if errors.As(err, &invalid) {
		issues := make([]ValidationIssue, 0, len(invalid.Issues))
		for _, issue := range invalid.Issues {
			issues = append(issues, ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		FailValidation(w, requestID, issues)
		return
	}
	api.Fail(w, code, name, err.Error(), requestID)
}

// TransitionRecorder counts status transition attempts by outcome.
type TransitionRecorder interface {
	RecordTransition(entity, outcome string)
}

// RecordTransition reports "ok" for a nil error and the envelope code
// otherwise. A nil recorder is ignored.
func RecordTransition(rec TransitionRecorder, entity string, err error) {
	if rec == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		_, outcome = StatusFor(err)
	}
	rec.RecordTransition(entity, outcome)
}
