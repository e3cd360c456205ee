package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

type RootOptions struct {
	Format    string
	RatesFile string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "laborpay",
		Short: "Colombian labor contracts and payroll",
		Long:  "Operator tools for laborpay: payroll calculations, rate tables, schema migrations and status changes.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.RatesFile, "rates", "", "YAML rate table overlaid on the 2024 defaults")

	cmd.AddCommand(NewCalcCommand(opts))
	cmd.AddCommand(NewRatesCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewContractCommand(opts))
	cmd.AddCommand(NewPaymentCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
