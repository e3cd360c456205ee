package auth

import "context"

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityResolver answers "who is calling". Implementations return
// ErrNoSession when nobody is signed in.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context) (Identity, error)
}

type ProfileLookup interface {
	GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok && identity.UserID != ""
}

// ContextIdentity resolves the identity placed in the request context by the
// HTTP auth middleware.
type ContextIdentity struct{}

func (ContextIdentity) CurrentIdentity(ctx context.Context) (Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, ErrNoSession
	}
	return identity, nil
}
