package payroll

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCalculateMonthlyWithDiurnalOvertime(t *testing.T) {
	terms := Terms{Salary: 1300000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75, RiskLevel: 1}
	calc := NewCalculator(DefaultRates())

	if rate := calc.HourlyRate(terms); rate != 8125 {
		t.Fatalf("expected hourly rate 8125, got %v", rate)
	}

	result := calc.Calculate(terms, 160, 10, 0)
	if result.BaseSalary != 1300000 {
		t.Fatalf("expected base salary 1300000, got %v", result.BaseSalary)
	}
	if result.OvertimePay != 101562.5 {
		t.Fatalf("expected overtime pay 101562.5, got %v", result.OvertimePay)
	}
	if result.GrossAmount != 1401562.5 {
		t.Fatalf("expected gross 1401562.5, got %v", result.GrossAmount)
	}
	if result.TaxDeductions != 0 {
		t.Fatalf("expected no withholding below 95 UVT, got %v", result.TaxDeductions)
	}
	if !approxEqual(result.SocialSecurityDeductions, 112125) {
		t.Fatalf("expected social security 112125, got %v", result.SocialSecurityDeductions)
	}
	if !approxEqual(result.EmployerContributions, 1401562.5*(0.085+0.12+0.00522)) {
		t.Fatalf("unexpected employer contributions %v", result.EmployerContributions)
	}
}

func TestPeriodDivisors(t *testing.T) {
	rates := DefaultRates()
	cases := map[Frequency]float64{
		FrequencyWeekly:   40,
		FrequencyBiweekly: 80,
		FrequencyMonthly:  160,
	}
	for freq, want := range cases {
		if got := rates.PeriodDivisor(freq); got != want {
			t.Fatalf("%s: expected divisor %v, got %v", freq, want, got)
		}
		calc := NewCalculator(rates)
		terms := Terms{Salary: 4000000, Frequency: freq}
		if got := calc.HourlyRate(terms); got != 4000000/want {
			t.Fatalf("%s: expected hourly %v, got %v", freq, 4000000/want, got)
		}
	}
	if got := rates.PeriodDivisor(Frequency("daily")); got != 40 {
		t.Fatalf("expected unknown frequency to use weekly divisor, got %v", got)
	}
}

func TestHourlyRateFlooredAtMinimumWage(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	floor := MinimumWage / MonthlyHours
	for _, salary := range []float64{0, 1, 100000, 500000} {
		for _, freq := range Frequencies {
			rate := calc.HourlyRate(Terms{Salary: salary, Frequency: freq})
			if rate < floor {
				t.Fatalf("salary %v %s: hourly rate %v below floor %v", salary, freq, rate, floor)
			}
		}
	}
	if rate := calc.HourlyRate(Terms{Salary: 100000, Frequency: FrequencyMonthly}); rate != floor {
		t.Fatalf("expected floor %v, got %v", floor, rate)
	}
}

func TestCalculateIdentities(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	terms := []Terms{
		{Salary: 1300000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75, RiskLevel: 3},
		{Salary: 900000, Frequency: FrequencyBiweekly, OvertimeRateDiurnal: 1.5, OvertimeRateNocturnal: 2, RiskLevel: 5},
		{Salary: 2500000, Frequency: FrequencyWeekly, RiskLevel: 2},
		{Salary: 8000000, Frequency: FrequencyMonthly, RiskLevel: 9},
	}
	hours := [][3]float64{{0, 0, 0}, {160, 0, 0}, {80, 4.5, 2.5}, {40, 0.5, 12}, {200, 20, 20}}

	for _, term := range terms {
		for _, h := range hours {
			result := calc.Calculate(term, h[0], h[1], h[2])
			if result.GrossAmount != result.BaseSalary+result.OvertimePay {
				t.Fatalf("gross %v != base %v + overtime %v", result.GrossAmount, result.BaseSalary, result.OvertimePay)
			}
			if result.NetAmount != result.GrossAmount-result.TaxDeductions-result.SocialSecurityDeductions {
				t.Fatalf("net identity broken: %+v", result)
			}
			ibc := math.Max(result.GrossAmount, MinimumWage)
			if !approxEqual(result.SocialSecurityDeductions, 0.08*ibc) {
				t.Fatalf("expected social security %v, got %v", 0.08*ibc, result.SocialSecurityDeductions)
			}
			for name, v := range map[string]float64{
				"base":     result.BaseSalary,
				"overtime": result.OvertimePay,
				"gross":    result.GrossAmount,
				"tax":      result.TaxDeductions,
				"social":   result.SocialSecurityDeductions,
				"employer": result.EmployerContributions,
			} {
				if v < 0 {
					t.Fatalf("%s negative: %v", name, v)
				}
			}
		}
	}
}

func TestCalculateNocturnalOvertime(t *testing.T) {
	terms := Terms{Salary: 1600000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75}
	result := Calculate(terms, 0, 0, 8)
	if result.OvertimePay != 10000*1.75*8 {
		t.Fatalf("expected nocturnal overtime %v, got %v", 10000*1.75*8, result.OvertimePay)
	}
}

func TestCalculateDefaultsZeroMultipliers(t *testing.T) {
	withZero := Calculate(Terms{Salary: 1600000, Frequency: FrequencyMonthly}, 0, 2, 2)
	withMin := Calculate(Terms{Salary: 1600000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75, RiskLevel: 1}, 0, 2, 2)
	if withZero != withMin {
		t.Fatalf("expected zero multipliers to use statutory minimums: %+v vs %+v", withZero, withMin)
	}
}

func TestIBCFlooredAtMinimumWage(t *testing.T) {
	result := Calculate(Terms{Salary: 1300000, Frequency: FrequencyMonthly, RiskLevel: 1}, 10, 0, 0)
	if !approxEqual(result.SocialSecurityDeductions, 0.08*MinimumWage) {
		t.Fatalf("expected contributions on the minimum wage, got %v", result.SocialSecurityDeductions)
	}
	if result.NetAmount >= result.GrossAmount {
		t.Fatalf("expected deductions to reduce net below gross")
	}
}

func TestARLRates(t *testing.T) {
	rates := DefaultRates()
	want := []float64{0.00522, 0.01044, 0.02436, 0.04350, 0.06960}
	for level := 1; level <= 5; level++ {
		if got := rates.ARLRate(level); got != want[level-1] {
			t.Fatalf("level %d: expected %v, got %v", level, want[level-1], got)
		}
	}
	for _, level := range []int{-1, 0, 6, 42} {
		if got := rates.ARLRate(level); got != 0.00522 {
			t.Fatalf("level %d: expected default 0.00522, got %v", level, got)
		}
	}
}

func TestWithholdingBrackets(t *testing.T) {
	rates := DefaultRates()
	if got := rates.WithholdingFor(94 * UVTValue); got != 0 {
		t.Fatalf("expected no tax below 95 UVT, got %v", got)
	}
	if got := rates.WithholdingFor(95 * UVTValue); got != 0 {
		t.Fatalf("expected zero tax at 95 UVT, got %v", got)
	}
	gross := 100 * UVTValue
	if got := rates.WithholdingFor(gross); !approxEqual(got, 5*UVTValue*0.19) {
		t.Fatalf("expected %v at 100 UVT, got %v", 5*UVTValue*0.19, got)
	}
	if got := rates.WithholdingFor(150 * UVTValue); got != 0 {
		t.Fatalf("expected default table to stop at 150 UVT, got %v", got)
	}

	result := Calculate(Terms{Salary: gross, Frequency: FrequencyMonthly}, 160, 0, 0)
	if !approxEqual(result.TaxDeductions, 5*UVTValue*0.19) {
		t.Fatalf("expected calculator to apply withholding, got %v", result.TaxDeductions)
	}
}

func TestTermsCheck(t *testing.T) {
	valid := []Terms{
		{Salary: 1300000, Frequency: FrequencyMonthly},
		{Salary: 1300000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75, RiskLevel: 5},
		{Salary: 1300000, Frequency: FrequencyWeekly, OvertimeRateDiurnal: 2, OvertimeRateNocturnal: 2.5, RiskLevel: 1},
	}
	for _, terms := range valid {
		if issues := terms.Check(); len(issues) != 0 {
			t.Fatalf("%+v: unexpected issues %v", terms, issues)
		}
	}

	bad := Terms{Salary: 1300000, Frequency: FrequencyMonthly, OvertimeRateDiurnal: -3, OvertimeRateNocturnal: 1.5, RiskLevel: 9}
	issues := bad.Check()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	fields := []string{"overtimeRateDiurnal", "overtimeRateNocturnal", "riskLevel"}
	for i, issue := range issues {
		if issue.Field != fields[i] {
			t.Fatalf("issue %d: expected %s, got %s", i, fields[i], issue.Field)
		}
	}
	if (Terms{RiskLevel: -1}).Check() == nil {
		t.Fatalf("negative risk level should be rejected")
	}
}
