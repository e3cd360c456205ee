package contracts

import (
	"context"

	"laborpay/internal/domain/auth"
)

type StoreAPI interface {
	CreateContract(ctx context.Context, c Contract) (Contract, error)
	GetContract(ctx context.Context, id string) (Contract, error)
	ListContracts(ctx context.Context, filter ListFilter) ([]Contract, error)
	// UpdateContractStatus only writes when the stored status equals from;
	// otherwise it returns status.ErrStaleStatus, or ErrNotFound if the row
	// is gone.
	UpdateContractStatus(ctx context.Context, id string, from, to Status) (Contract, error)
	SignContract(ctx context.Context, id string, party auth.Role) (Contract, error)
}

// ProfileDirectory resolves profiles by id, user and email.
type ProfileDirectory interface {
	auth.ProfileLookup
	GetProfile(ctx context.Context, id string) (auth.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (auth.Profile, error)
}

// Auditor and Notifier receive best-effort side effects after a write.
type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type Notifier interface {
	Create(ctx context.Context, profileID, ntype, title, body string) error
}
