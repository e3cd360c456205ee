package payments

import "errors"

var (
	ErrNotFound           = errors.New("payment not found")
	ErrForbidden          = errors.New("not a party to this payment's contract")
	ErrEmployerOnly       = errors.New("only the contract's employer can register payments")
	ErrInvalidPayment     = errors.New("invalid payment")
	ErrContractUnverified = errors.New("the payment's contract could not be verified")
)
