package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"laborpay/internal/domain/payroll"
)

func NewRatesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the effective rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rates, err := payroll.LoadRates(rootOpts.RatesFile)
			if err != nil {
				return WrapExitError(ExitCommandError, "load rates", err)
			}
			return rootOpts.formatter(cmd).Success(rates, func(w io.Writer) error {
				return writeRates(w, rates)
			})
		},
	}
}

func writeRates(w io.Writer, r payroll.Rates) error {
	fmt.Fprintf(w, "Salario mínimo: %.0f\n", r.MinimumWage)
	fmt.Fprintf(w, "UVT: %.0f\n", r.UVTValue)
	fmt.Fprintf(w, "Horas mensuales: %.0f\n", r.MonthlyHours)
	for _, f := range payroll.Frequencies {
		fmt.Fprintf(w, "Horas por periodo (%s): %.0f\n", f, r.PeriodDivisor(f))
	}
	fmt.Fprintf(w, "Salud empleado: %.4f  Pensión empleado: %.4f\n", r.EmployeeHealthRate, r.EmployeePensionRate)
	fmt.Fprintf(w, "Salud empleador: %.4f  Pensión empleador: %.4f\n", r.EmployerHealthRate, r.EmployerPensionRate)
	for i, rate := range r.ARLRates {
		fmt.Fprintf(w, "ARL nivel %d: %.5f\n", i+1, rate)
	}
	for _, b := range r.Withholding {
		to := "∞"
		if b.ToUVT != 0 {
			to = fmt.Sprintf("%.0f", b.ToUVT)
		}
		fmt.Fprintf(w, "Retención %.0f-%s UVT: %.2f%% + %.0f UVT\n", b.FromUVT, to, b.Rate*100, b.BaseUVT)
	}
	return nil
}
