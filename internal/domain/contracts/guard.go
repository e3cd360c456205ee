package contracts

import (
	"context"
	"fmt"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/status"
)

// partyGuard requires the actor to hold the contract side matching its role
// and, for activation, the other party's signature.
func partyGuard(_ context.Context, actor auth.Profile, req status.Request[Contract, Status]) error {
	c := req.Entity
	party, ok := c.PartyRole(actor.ID)
	if !ok || party != actor.Role {
		return fmt.Errorf("%w: profile %s is not the %s on contract %s", status.ErrNotOwner, actor.ID, actor.Role, c.ID)
	}
	if req.From != StatusPending || req.To != StatusActive {
		return nil
	}
	switch actor.Role {
	case auth.RoleEmployer:
		if !c.SignedByWorker {
			return fmt.Errorf("%w: the worker must sign before the contract is activated", status.ErrSignatureRequired)
		}
	case auth.RoleWorker:
		if !c.SignedByEmployer {
			return fmt.Errorf("%w: the employer must sign before the contract is activated", status.ErrSignatureRequired)
		}
	}
	return nil
}
