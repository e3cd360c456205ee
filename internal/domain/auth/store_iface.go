package auth

import "context"

type StoreAPI interface {
	// CreateAccount writes the user and its profile atomically and returns the
	// stored profile. A duplicate email yields ErrEmailTaken.
	CreateAccount(ctx context.Context, user User, profile Profile) (Profile, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	GetProfile(ctx context.Context, id string) (Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (Profile, error)
}
