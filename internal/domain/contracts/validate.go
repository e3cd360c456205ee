package contracts

import (
	"fmt"
	"strings"

	"laborpay/internal/domain/payroll"
)

// Normalize fills statutory defaults for omitted multipliers and risk level.
func (in CreateInput) Normalize() CreateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.WorkerEmail = strings.TrimSpace(in.WorkerEmail)
	if in.OvertimeRateDiurnal == 0 {
		in.OvertimeRateDiurnal = payroll.MinOvertimeRateDiurnal
	}
	if in.OvertimeRateNocturnal == 0 {
		in.OvertimeRateNocturnal = payroll.MinOvertimeRateNocturnal
	}
	if in.RiskLevel == 0 {
		in.RiskLevel = payroll.MinRiskLevel
	}
	return in
}

func (in CreateInput) Validate(minimumWage float64) error {
	var issues []Issue
	add := func(field, reason string) {
		issues = append(issues, Issue{Field: field, Reason: reason})
	}

	if in.WorkerEmail == "" {
		add("workerEmail", "is required")
	}
	if in.Title == "" {
		add("title", "is required")
	}
	if in.StartDate.IsZero() {
		add("startDate", "is required")
	}
	if in.EndDate != nil && !in.StartDate.IsZero() && in.EndDate.Before(in.StartDate) {
		add("endDate", "must be on or after startDate")
	}
	if in.Salary < minimumWage {
		add("salary", fmt.Sprintf("must be at least the minimum wage (%.0f)", minimumWage))
	}
	if !in.PaymentFrequency.Valid() {
		add("paymentFrequency", "must be weekly, biweekly or monthly")
	}
	if in.HoursPerWeek < payroll.MinHoursPerWeek || in.HoursPerWeek > payroll.MaxHoursPerWeek {
		add("hoursPerWeek", fmt.Sprintf("must be between %d and %d", payroll.MinHoursPerWeek, payroll.MaxHoursPerWeek))
	}
	if in.OvertimeRateDiurnal < payroll.MinOvertimeRateDiurnal {
		add("overtimeRateDiurnal", fmt.Sprintf("must be at least %.2f", payroll.MinOvertimeRateDiurnal))
	}
	if in.OvertimeRateNocturnal < payroll.MinOvertimeRateNocturnal {
		add("overtimeRateNocturnal", fmt.Sprintf("must be at least %.2f", payroll.MinOvertimeRateNocturnal))
	}
	if in.RiskLevel < payroll.MinRiskLevel || in.RiskLevel > payroll.MaxRiskLevel {
		add("riskLevel", fmt.Sprintf("must be between %d and %d", payroll.MinRiskLevel, payroll.MaxRiskLevel))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
