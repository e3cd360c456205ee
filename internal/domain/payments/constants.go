package payments

import (
	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/status"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Method string

const (
	MethodBankTransfer  Method = "bank_transfer"
	MethodDigitalWallet Method = "digital_wallet"
)

func (m Method) Valid() bool {
	return m == MethodBankTransfer || m == MethodDigitalWallet
}

const EntityName = "payment"

var Transitions = status.Table[Status]{
	StatusPending:    {StatusProcessing, StatusCompleted},
	StatusProcessing: {StatusCompleted},
	StatusCompleted:  {},
	StatusFailed:     {StatusPending},
}

// Only employers move payments.
var RolePolicy = status.Policy[Status]{
	StatusPending:    {auth.RoleEmployer: {StatusProcessing, StatusCompleted}},
	StatusProcessing: {auth.RoleEmployer: {StatusCompleted}},
	StatusFailed:     {auth.RoleEmployer: {StatusPending}},
}

var Catalog = status.Catalog[Status]{
	StatusPending:    {Label: "Pending", Color: "bg-yellow-100 text-yellow-800", Description: "Payment is scheduled"},
	StatusProcessing: {Label: "Processing", Color: "bg-blue-100 text-blue-800", Description: "Payment is being processed"},
	StatusCompleted:  {Label: "Completed", Color: "bg-green-100 text-green-800", Description: "Payment has been completed"},
	StatusFailed:     {Label: "Failed", Color: "bg-red-100 text-red-800", Description: "Payment failed to process"},
}

var Machine = status.NewMachine(EntityName, Transitions)

func (s Status) Valid() bool {
	return Machine.Known(s)
}
