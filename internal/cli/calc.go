package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/payroll"
)

type calcOptions struct {
	salary            float64
	frequency         string
	hours             float64
	overtimeDiurnal   float64
	overtimeNocturnal float64
	rateDiurnal       float64
	rateNocturnal     float64
	riskLevel         int
}

func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute one pay period's breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().Float64Var(&opts.salary, "salary", 0, "contract salary for one pay period (COP)")
	cmd.Flags().StringVar(&opts.frequency, "frequency", string(payroll.FrequencyMonthly), "pay frequency (weekly|biweekly|monthly)")
	cmd.Flags().Float64Var(&opts.hours, "hours", 0, "ordinary hours worked")
	cmd.Flags().Float64Var(&opts.overtimeDiurnal, "overtime-diurnal", 0, "daytime overtime hours")
	cmd.Flags().Float64Var(&opts.overtimeNocturnal, "overtime-nocturnal", 0, "night overtime hours")
	cmd.Flags().Float64Var(&opts.rateDiurnal, "rate-diurnal", payroll.MinOvertimeRateDiurnal, "daytime overtime multiplier")
	cmd.Flags().Float64Var(&opts.rateNocturnal, "rate-nocturnal", payroll.MinOvertimeRateNocturnal, "night overtime multiplier")
	cmd.Flags().IntVar(&opts.riskLevel, "risk", payroll.MinRiskLevel, "ARL risk level (1-5)")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}

func runCalc(cmd *cobra.Command, rootOpts *RootOptions, opts *calcOptions) error {
	freq := payroll.Frequency(opts.frequency)
	if !freq.Valid() {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid frequency %q", opts.frequency), nil)
	}
	if opts.hours < 0 || opts.overtimeDiurnal < 0 || opts.overtimeNocturnal < 0 {
		return WrapExitError(ExitCommandError, "hours must not be negative", nil)
	}
	if opts.salary <= 0 {
		return WrapExitError(ExitCommandError, "salary must be positive", nil)
	}
	terms := payroll.Terms{
		Salary:                opts.salary,
		Frequency:             freq,
		OvertimeRateDiurnal:   opts.rateDiurnal,
		OvertimeRateNocturnal: opts.rateNocturnal,
		RiskLevel:             opts.riskLevel,
	}
	if issues := terms.Check(); len(issues) > 0 {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s: %s", issues[0].Field, issues[0].Reason), nil)
	}
	rates, err := payroll.LoadRates(rootOpts.RatesFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load rates", err)
	}

	calc := payroll.NewCalculator(rates)
	result := calc.Calculate(terms, opts.hours, opts.overtimeDiurnal, opts.overtimeNocturnal)
	hourly := calc.HourlyRate(terms)

	return rootOpts.formatter(cmd).Success(map[string]any{
		"hourlyRate":  hourly,
		"calculation": result,
	}, func(w io.Writer) error {
		return writeCalculation(w, hourly, result)
	})
}

func writeCalculation(w io.Writer, hourly float64, c payroll.Calculation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := []struct {
		label string
		value float64
	}{
		{"Valor hora", hourly},
		{"Salario base", c.BaseSalary},
		{"Horas extra", c.OvertimePay},
		{"Total devengado", c.GrossAmount},
		{"Retención en la fuente", c.TaxDeductions},
		{"Salud y pensión", c.SocialSecurityDeductions},
		{"Neto a pagar", c.NetAmount},
		{"Aportes del empleador", c.EmployerContributions},
	}
	for _, line := range lines {
		fmt.Fprintf(tw, "%s\t%s\t\n", line.label, payments.FormatCOP(line.value))
	}
	return tw.Flush()
}
