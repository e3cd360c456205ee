package payroll

import (
	"fmt"
	"math"
)

// Terms are the contract fields the calculator reads.
type Terms struct {
	Salary                float64
	Frequency             Frequency
	OvertimeRateDiurnal   float64
	OvertimeRateNocturnal float64
	RiskLevel             int
}

// TermIssue names one term outside its statutory bounds.
type TermIssue struct {
	Field  string
	Reason string
}

// Check reports multipliers and risk levels outside the statutory bounds.
// Zero values select the defaults and pass.
func (t Terms) Check() []TermIssue {
	var issues []TermIssue
	if t.OvertimeRateDiurnal != 0 && t.OvertimeRateDiurnal < MinOvertimeRateDiurnal {
		issues = append(issues, TermIssue{"overtimeRateDiurnal", fmt.Sprintf("must be at least %.2f", MinOvertimeRateDiurnal)})
	}
	if t.OvertimeRateNocturnal != 0 && t.OvertimeRateNocturnal < MinOvertimeRateNocturnal {
		issues = append(issues, TermIssue{"overtimeRateNocturnal", fmt.Sprintf("must be at least %.2f", MinOvertimeRateNocturnal)})
	}
	if t.RiskLevel != 0 && (t.RiskLevel < MinRiskLevel || t.RiskLevel > MaxRiskLevel) {
		issues = append(issues, TermIssue{"riskLevel", fmt.Sprintf("must be between %d and %d", MinRiskLevel, MaxRiskLevel)})
	}
	return issues
}

type Calculation struct {
	BaseSalary               float64 `json:"baseSalary"`
	OvertimePay              float64 `json:"overtimePay"`
	GrossAmount              float64 `json:"grossAmount"`
	TaxDeductions            float64 `json:"taxDeductions"`
	SocialSecurityDeductions float64 `json:"socialSecurityDeductions"`
	EmployerContributions    float64 `json:"employerContributions"`
	NetAmount                float64 `json:"netAmount"`
}

// Calculator is safe for concurrent use; it holds no mutable state.
type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

var defaultCalculator = NewCalculator(DefaultRates())

// Calculate uses the default 2024 rate table.
func Calculate(terms Terms, hoursWorked, overtimeDiurnal, overtimeNocturnal float64) Calculation {
	return defaultCalculator.Calculate(terms, hoursWorked, overtimeDiurnal, overtimeNocturnal)
}

func (c *Calculator) Rates() Rates {
	return c.rates
}

// HourlyRate is the contract rate for its pay period, floored at the statutory
// minimum hourly rate.
func (c *Calculator) HourlyRate(terms Terms) float64 {
	hourly := terms.Salary / c.rates.PeriodDivisor(terms.Frequency)
	return math.Max(hourly, c.rates.MinHourlyRate())
}

func (c *Calculator) Calculate(terms Terms, hoursWorked, overtimeDiurnal, overtimeNocturnal float64) Calculation {
	rate := c.HourlyRate(terms)

	diurnal := terms.OvertimeRateDiurnal
	if diurnal == 0 {
		diurnal = MinOvertimeRateDiurnal
	}
	nocturnal := terms.OvertimeRateNocturnal
	if nocturnal == 0 {
		nocturnal = MinOvertimeRateNocturnal
	}
	risk := terms.RiskLevel
	if risk == 0 {
		risk = MinRiskLevel
	}

	base := rate * hoursWorked
	overtime := rate*diurnal*overtimeDiurnal + rate*nocturnal*overtimeNocturnal
	gross := base + overtime

	ibc := math.Max(gross, c.rates.MinimumWage)
	social := ibc*c.rates.EmployeeHealthRate + ibc*c.rates.EmployeePensionRate
	tax := c.rates.WithholdingFor(gross)
	employer := ibc*c.rates.EmployerHealthRate + ibc*c.rates.EmployerPensionRate + ibc*c.rates.ARLRate(risk)

	return Calculation{
		BaseSalary:               base,
		OvertimePay:              overtime,
		GrossAmount:              gross,
		TaxDeductions:            tax,
		SocialSecurityDeductions: social,
		EmployerContributions:    employer,
		NetAmount:                gross - tax - social,
	}
}
