package status

import (
	"slices"

	"laborpay/internal/domain/auth"
)

// Policy lists, per current state and role, the target states that role may
// request. Anything absent is denied.
type Policy[S ~string] map[S]map[auth.Role][]S

func (p Policy[S]) Allows(role auth.Role, from, to S) bool {
	return slices.Contains(p[from][role], to)
}

func (p Policy[S]) Available(role auth.Role, from S) []S {
	return slices.Clone(p[from][role])
}
