package payroll

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

var Frequencies = []Frequency{FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Statutory values for 2024.
const (
	MinimumWage  = 1300000.0
	UVTValue     = 47065.0
	MonthlyHours = 240.0

	MinOvertimeRateDiurnal   = 1.25
	MinOvertimeRateNocturnal = 1.75

	MinHoursPerWeek = 1
	MaxHoursPerWeek = 48

	MinRiskLevel = 1
	MaxRiskLevel = 5
)

const (
	EmployeeHealthRate  = 0.04
	EmployeePensionRate = 0.04
	EmployerHealthRate  = 0.085
	EmployerPensionRate = 0.12
)

// ARL rates indexed by risk level 1..5.
var DefaultARLRates = []float64{0.00522, 0.01044, 0.02436, 0.04350, 0.06960}
