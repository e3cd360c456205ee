package contracts

import (
	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/status"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const EntityName = "contract"

var Transitions = status.Table[Status]{
	StatusDraft:     {StatusPending, StatusCancelled},
	StatusPending:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Employers drive the whole lifecycle; workers can only activate a pending
// contract.
var RolePolicy = status.Policy[Status]{
	StatusDraft: {
		auth.RoleEmployer: {StatusPending, StatusCancelled},
	},
	StatusPending: {
		auth.RoleEmployer: {StatusActive, StatusCancelled},
		auth.RoleWorker:   {StatusActive},
	},
	StatusActive: {
		auth.RoleEmployer: {StatusCompleted, StatusCancelled},
	},
}

var Catalog = status.Catalog[Status]{
	StatusDraft:     {Label: "Draft", Color: "bg-gray-100 text-gray-800", Description: "Contract is being prepared"},
	StatusPending:   {Label: "Pending", Color: "bg-yellow-100 text-yellow-800", Description: "Waiting for signatures"},
	StatusActive:    {Label: "Active", Color: "bg-green-100 text-green-800", Description: "Contract is currently active"},
	StatusCompleted: {Label: "Completed", Color: "bg-blue-100 text-blue-800", Description: "Contract has been completed"},
	StatusCancelled: {Label: "Cancelled", Color: "bg-red-100 text-red-800", Description: "Contract has been cancelled"},
}

var Machine = status.NewMachine(EntityName, Transitions)

func (s Status) Valid() bool {
	return Machine.Known(s)
}

// Signable reports whether parties may still sign.
func (s Status) Signable() bool {
	return s == StatusDraft || s == StatusPending
}
