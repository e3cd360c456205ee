package payments

import (
	"time"

	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

type Payment struct {
	ID                       string    `json:"id"`
	ContractID               string    `json:"contractId"`
	Amount                   float64   `json:"amount"`
	Status                   Status    `json:"status"`
	PaymentDate              time.Time `json:"paymentDate"`
	PaymentMethod            Method    `json:"paymentMethod"`
	HoursWorked              float64   `json:"hoursWorked"`
	BaseSalary               float64   `json:"baseSalary"`
	OvertimePay              float64   `json:"overtimePay"`
	OvertimeHoursDiurnal     float64   `json:"overtimeHoursDiurnal"`
	OvertimeHoursNocturnal   float64   `json:"overtimeHoursNocturnal"`
	TaxDeductions            float64   `json:"taxDeductions"`
	SocialSecurityDeductions float64   `json:"socialSecurityDeductions"`
	EmployerContributions    float64   `json:"employerContributions"`
	NetAmount                float64   `json:"netAmount"`
	CreatedAt                time.Time `json:"createdAt"`
}

func (p Payment) Calculation() payroll.Calculation {
	return payroll.Calculation{
		BaseSalary:               p.BaseSalary,
		OvertimePay:              p.OvertimePay,
		GrossAmount:              p.Amount,
		TaxDeductions:            p.TaxDeductions,
		SocialSecurityDeductions: p.SocialSecurityDeductions,
		EmployerContributions:    p.EmployerContributions,
		NetAmount:                p.NetAmount,
	}
}

type Hours struct {
	Worked            float64 `json:"hoursWorked"`
	OvertimeDiurnal   float64 `json:"overtimeHoursDiurnal"`
	OvertimeNocturnal float64 `json:"overtimeHoursNocturnal"`
}

type CreateInput struct {
	ContractID    string
	PaymentDate   time.Time
	PaymentMethod Method
	Hours         Hours
}

type ListFilter struct {
	ContractIDs []string
	Status      Status
	Limit       int
	Offset      int
}

type View struct {
	Payment
	Presentation status.Presentation     `json:"presentation"`
	Transitions  []status.Option[Status] `json:"transitions"`
}

type Receipt struct {
	Data     []byte
	Filename string
	Location string
}
