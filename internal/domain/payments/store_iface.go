package payments

import (
	"context"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
)

type StoreAPI interface {
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
	GetPayment(ctx context.Context, id string) (Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]Payment, error)
	// UpdatePaymentStatus only writes when the stored status equals from.
	UpdatePaymentStatus(ctx context.Context, id string, from, to Status) (Payment, error)
}

type ContractReader interface {
	GetContract(ctx context.Context, id string) (contracts.Contract, error)
	ListContracts(ctx context.Context, filter contracts.ListFilter) ([]contracts.Contract, error)
}

// BlobStore keeps rendered receipts and returns where they were written.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type Notifier interface {
	Create(ctx context.Context, profileID, ntype, title, body string) error
}

type ProfileReader interface {
	auth.ProfileLookup
	GetProfile(ctx context.Context, id string) (auth.Profile, error)
}
