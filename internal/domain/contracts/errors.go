package contracts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("contract not found")
	ErrForbidden       = errors.New("not a party to this contract")
	ErrEmployerOnly    = errors.New("only employers can create contracts")
	ErrWorkerNotFound  = errors.New("worker not found; make sure the email is correct and the worker has registered")
	ErrNotAWorker      = errors.New("the specified email belongs to an employer account")
	ErrInvalidContract = errors.New("invalid contract")
	ErrNotSignable     = errors.New("contract can no longer be signed")
)

type Issue struct {
	Field  string
	Reason string
}

// ValidationError lists every failed field; errors.Is matches ErrInvalidContract.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Reason))
	}
	return "invalid contract: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidContract
}
