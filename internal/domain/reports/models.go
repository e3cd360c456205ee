package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/payments"
)

// MonthlyRow totals the payments dated within one calendar month.
type MonthlyRow struct {
	Month           string          `json:"month"`
	TotalBaseSalary decimal.Decimal `json:"totalBaseSalary"`
	TotalOvertime   decimal.Decimal `json:"totalOvertime"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	PaymentCount    int             `json:"paymentCount"`
}

type Dashboard struct {
	ActiveContracts int                  `json:"activeContracts"`
	Counterparties  int                  `json:"counterparties"`
	PendingPayments int                  `json:"pendingPayments"`
	MonthlyEarnings decimal.Decimal      `json:"monthlyEarnings"`
	RecentContracts []contracts.Contract `json:"recentContracts"`
	RecentPayments  []payments.Payment   `json:"recentPayments"`
}

type Reminder struct {
	Type      string    `json:"type"`
	EntityID  string    `json:"entityId"`
	ProfileID string    `json:"profileId"`
	DueDate   time.Time `json:"dueDate"`
	DaysLeft  int       `json:"daysLeft"`
	Message   string    `json:"message"`
}

// Key identifies the reminder across runs. A payment that turns overdue gets
// a new key, so it is reminded once more.
func (r Reminder) Key() string {
	return r.Type + ":" + r.EntityID
}
