package status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"laborpay/internal/domain/auth"
)

type Request[E any, S ~string] struct {
	ID     string
	Entity E
	From   S
	To     S
}

// Guard runs entity-specific checks once the actor's role is known. Its error
// is reported under ErrPreconditionFailed.
type Guard[E any, S ~string] func(ctx context.Context, actor auth.Profile, req Request[E, S]) error

// Persist writes the new status and returns the record as stored. It must
// return ErrStaleStatus when the stored status no longer equals req.From.
type Persist[E any, S ~string] func(ctx context.Context, req Request[E, S]) (E, error)

type Result[E any] struct {
	Entity E
	Actor  auth.Profile
}

// Engine runs one transition: identifier, table, identity, profile, role
// policy, entity guard and finally the write. The first failing step decides
// the error and nothing after it runs.
type Engine[E any, S ~string] struct {
	Machine  *Machine[S]
	Policy   Policy[S]
	Identity auth.IdentityResolver
	Profiles auth.ProfileLookup
	Guard    Guard[E, S]
	Timeout  time.Duration
}

// Bound limits ctx to the engine timeout. Callers that load the entity before
// Apply run the load under it so the whole transition shares one deadline.
func (e *Engine[E, S]) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.Timeout)
}

func (e *Engine[E, S]) Apply(ctx context.Context, req Request[E, S], persist Persist[E, S]) (Result[E], error) {
	entity := e.Machine.Entity()
	if strings.TrimSpace(req.ID) == "" {
		return Result[E]{}, fmt.Errorf("%w: %s", ErrMissingIdentifier, entity)
	}
	if err := e.Machine.Validate(req.From, req.To); err != nil {
		return Result[E]{}, err
	}

	ctx, cancel := e.Bound(ctx)
	defer cancel()

	actor, err := e.resolveActor(ctx)
	if err != nil {
		return Result[E]{}, err
	}

	if !e.Policy.Allows(actor.Role, req.From, req.To) {
		return Result[E]{}, fmt.Errorf("%w: %w: %s may not move %s %s from %s to %s",
			ErrPreconditionFailed, ErrRoleNotAllowed, roleName(actor.Role), entity, req.ID, req.From, req.To)
	}
	if e.Guard != nil {
		if err := e.Guard(ctx, actor, req); err != nil {
			if errors.Is(err, ErrPreconditionFailed) {
				return Result[E]{}, err
			}
			return Result[E]{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
		}
	}

	updated, err := persist(ctx, req)
	if err != nil {
		if errors.Is(err, ErrStaleStatus) {
			return Result[E]{}, fmt.Errorf("%w: %s %s is no longer %s", err, entity, req.ID, req.From)
		}
		return Result[E]{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return Result[E]{Entity: updated, Actor: actor}, nil
}

// Actor resolves the calling profile without attempting a transition.
func (e *Engine[E, S]) Actor(ctx context.Context) (auth.Profile, error) {
	return e.resolveActor(ctx)
}

// AvailableFor lists the states role may move to from the given state.
func (e *Engine[E, S]) AvailableFor(role auth.Role, from S) []S {
	var out []S
	for _, to := range e.Machine.Available(from) {
		if e.Policy.Allows(role, from, to) {
			out = append(out, to)
		}
	}
	return out
}

func (e *Engine[E, S]) resolveActor(ctx context.Context) (auth.Profile, error) {
	if e.Identity == nil {
		return auth.Profile{}, ErrUnauthenticated
	}
	identity, err := e.Identity.CurrentIdentity(ctx)
	if err != nil {
		return auth.Profile{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if identity.UserID == "" {
		return auth.Profile{}, ErrUnauthenticated
	}
	profile, err := e.Profiles.GetProfileByUserID(ctx, identity.UserID)
	if err != nil {
		return auth.Profile{}, fmt.Errorf("%w: %w", ErrProfileUnresolved, err)
	}
	return profile, nil
}

func roleName(r auth.Role) string {
	if r == "" {
		return "unknown role"
	}
	return string(r)
}
