package status

import "errors"

var (
	ErrMissingIdentifier  = errors.New("entity identifier is missing")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrProfileUnresolved  = errors.New("user profile could not be resolved")
	ErrPreconditionFailed = errors.New("transition precondition failed")
	ErrPersistence        = errors.New("status update failed")
	ErrStaleStatus        = errors.New("status changed since it was read")
)

// Causes joined under ErrPreconditionFailed.
var (
	ErrRoleNotAllowed    = errors.New("role not allowed to make this transition")
	ErrSignatureRequired = errors.New("counterparty signature required")
	ErrNotOwner          = errors.New("not the owner of this entity")
)
