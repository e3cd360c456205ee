package contracts

import (
	"time"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

type Contract struct {
	ID                    string            `json:"id"`
	EmployerID            string            `json:"employerId"`
	WorkerID              string            `json:"workerId"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	StartDate             time.Time         `json:"startDate"`
	EndDate               *time.Time        `json:"endDate,omitempty"`
	Salary                float64           `json:"salary"`
	PaymentFrequency      payroll.Frequency `json:"paymentFrequency"`
	Status                Status            `json:"status"`
	SignedByEmployer      bool              `json:"signedByEmployer"`
	SignedByWorker        bool              `json:"signedByWorker"`
	HoursPerWeek          int               `json:"hoursPerWeek"`
	OvertimeRateDiurnal   float64           `json:"overtimeRateDiurnal"`
	OvertimeRateNocturnal float64           `json:"overtimeRateNocturnal"`
	RiskLevel             int               `json:"riskLevel"`
	CreatedAt             time.Time         `json:"createdAt"`
}

func (c Contract) Terms() payroll.Terms {
	return payroll.Terms{
		Salary:                c.Salary,
		Frequency:             c.PaymentFrequency,
		OvertimeRateDiurnal:   c.OvertimeRateDiurnal,
		OvertimeRateNocturnal: c.OvertimeRateNocturnal,
		RiskLevel:             c.RiskLevel,
	}
}

// PartyRole reports which side of the contract a profile is on.
func (c Contract) PartyRole(profileID string) (auth.Role, bool) {
	switch profileID {
	case "":
		return "", false
	case c.EmployerID:
		return auth.RoleEmployer, true
	case c.WorkerID:
		return auth.RoleWorker, true
	}
	return "", false
}

func (c Contract) Counterparty(profileID string) string {
	if profileID == c.EmployerID {
		return c.WorkerID
	}
	return c.EmployerID
}

type CreateInput struct {
	WorkerEmail           string
	Title                 string
	Description           string
	StartDate             time.Time
	EndDate               *time.Time
	Salary                float64
	PaymentFrequency      payroll.Frequency
	HoursPerWeek          int
	OvertimeRateDiurnal   float64
	OvertimeRateNocturnal float64
	RiskLevel             int
}

type ListFilter struct {
	EmployerID string
	WorkerID   string
	Status     Status
	Limit      int
	Offset     int
}

// View is a contract together with what the caller may do next.
type View struct {
	Contract
	Presentation status.Presentation     `json:"presentation"`
	Transitions  []status.Option[Status] `json:"transitions"`
}
