package payroll

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidRates = errors.New("invalid rate table")

// Bracket is one withholding band expressed in UVT. ToUVT of zero means the
// band is open-ended. Tax inside a band is (BaseUVT + (income - FromUVT) * Rate) UVT.
type Bracket struct {
	FromUVT float64 `yaml:"from_uvt" json:"fromUvt"`
	ToUVT   float64 `yaml:"to_uvt" json:"toUvt"`
	Rate    float64 `yaml:"rate" json:"rate"`
	BaseUVT float64 `yaml:"base_uvt" json:"baseUvt"`
}

type Rates struct {
	MinimumWage         float64               `yaml:"minimum_wage" json:"minimumWage"`
	UVTValue            float64               `yaml:"uvt_value" json:"uvtValue"`
	MonthlyHours        float64               `yaml:"monthly_hours" json:"monthlyHours"`
	PeriodHours         map[Frequency]float64 `yaml:"period_hours" json:"periodHours"`
	EmployeeHealthRate  float64               `yaml:"employee_health_rate" json:"employeeHealthRate"`
	EmployeePensionRate float64               `yaml:"employee_pension_rate" json:"employeePensionRate"`
	EmployerHealthRate  float64               `yaml:"employer_health_rate" json:"employerHealthRate"`
	EmployerPensionRate float64               `yaml:"employer_pension_rate" json:"employerPensionRate"`
	ARLRates            []float64             `yaml:"arl_rates" json:"arlRates"`
	Withholding         []Bracket             `yaml:"withholding" json:"withholding"`
}

// DefaultRates reproduces the 2024 tables. Withholding stops at 150 UVT; load a
// rates file to add the upper bands.
func DefaultRates() Rates {
	return Rates{
		MinimumWage:  MinimumWage,
		UVTValue:     UVTValue,
		MonthlyHours: MonthlyHours,
		PeriodHours: map[Frequency]float64{
			FrequencyMonthly:  160,
			FrequencyBiweekly: 80,
			FrequencyWeekly:   40,
		},
		EmployeeHealthRate:  EmployeeHealthRate,
		EmployeePensionRate: EmployeePensionRate,
		EmployerHealthRate:  EmployerHealthRate,
		EmployerPensionRate: EmployerPensionRate,
		ARLRates:            append([]float64(nil), DefaultARLRates...),
		Withholding: []Bracket{
			{FromUVT: 0, ToUVT: 95, Rate: 0},
			{FromUVT: 95, ToUVT: 150, Rate: 0.19},
		},
	}
}

// LoadRates overlays a YAML file on top of DefaultRates. An empty path returns
// the defaults.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rates{}, fmt.Errorf("read rates file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return Rates{}, fmt.Errorf("%w: %v", ErrInvalidRates, err)
	}
	if err := rates.Validate(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

func (r Rates) Validate() error {
	if r.MinimumWage <= 0 {
		return fmt.Errorf("%w: minimum_wage must be positive", ErrInvalidRates)
	}
	if r.UVTValue <= 0 {
		return fmt.Errorf("%w: uvt_value must be positive", ErrInvalidRates)
	}
	if r.MonthlyHours <= 0 {
		return fmt.Errorf("%w: monthly_hours must be positive", ErrInvalidRates)
	}
	for _, f := range Frequencies {
		if r.PeriodHours[f] <= 0 {
			return fmt.Errorf("%w: period_hours.%s must be positive", ErrInvalidRates, f)
		}
	}
	for name, rate := range map[string]float64{
		"employee_health_rate":  r.EmployeeHealthRate,
		"employee_pension_rate": r.EmployeePensionRate,
		"employer_health_rate":  r.EmployerHealthRate,
		"employer_pension_rate": r.EmployerPensionRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidRates, name)
		}
	}
	if len(r.ARLRates) != MaxRiskLevel {
		return fmt.Errorf("%w: arl_rates needs %d entries, got %d", ErrInvalidRates, MaxRiskLevel, len(r.ARLRates))
	}
	for i, rate := range r.ARLRates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: arl_rates[%d] must be between 0 and 1", ErrInvalidRates, i)
		}
	}
	prevTo := 0.0
	for i, b := range r.Withholding {
		if b.Rate < 0 || b.Rate > 1 || b.BaseUVT < 0 {
			return fmt.Errorf("%w: withholding[%d] has a negative or oversized rate", ErrInvalidRates, i)
		}
		if b.FromUVT < prevTo {
			return fmt.Errorf("%w: withholding[%d] overlaps the previous band", ErrInvalidRates, i)
		}
		if b.ToUVT == 0 {
			if i != len(r.Withholding)-1 {
				return fmt.Errorf("%w: only the last withholding band may be open-ended", ErrInvalidRates)
			}
			continue
		}
		if b.ToUVT <= b.FromUVT {
			return fmt.Errorf("%w: withholding[%d] ends before it starts", ErrInvalidRates, i)
		}
		prevTo = b.ToUVT
	}
	return nil
}

// PeriodDivisor returns the hours in one pay period. Unknown frequencies are
// treated as weekly.
func (r Rates) PeriodDivisor(f Frequency) float64 {
	if hours, ok := r.PeriodHours[f]; ok && hours > 0 {
		return hours
	}
	return r.PeriodHours[FrequencyWeekly]
}

func (r Rates) MinHourlyRate() float64 {
	return r.MinimumWage / r.MonthlyHours
}

// ARLRate falls back to the level 1 rate for any level outside the table.
func (r Rates) ARLRate(level int) float64 {
	if len(r.ARLRates) == 0 {
		return 0
	}
	if level < MinRiskLevel || level > len(r.ARLRates) {
		return r.ARLRates[0]
	}
	return r.ARLRates[level-1]
}

// WithholdingFor returns the income tax withheld from a gross amount. Income that
// falls outside every band is not taxed.
func (r Rates) WithholdingFor(gross float64) float64 {
	if r.UVTValue <= 0 || gross <= 0 {
		return 0
	}
	income := gross / r.UVTValue
	for _, b := range r.Withholding {
		if income < b.FromUVT {
			continue
		}
		if b.ToUVT != 0 && income >= b.ToUVT {
			continue
		}
		return b.BaseUVT*r.UVTValue + (gross-b.FromUVT*r.UVTValue)*b.Rate
	}
	return 0
}
