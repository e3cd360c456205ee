package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"laborpay/internal/platform/config"
	"laborpay/internal/platform/db"
	"laborpay/internal/store/sqlite"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "config", err)
			}
			applied, err := migrate(cmd, cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "migrate", err)
			}
			return rootOpts.formatter(cmd).Success(map[string]any{
				"driver":  cfg.StoreDriver,
				"applied": applied,
			}, func(w io.Writer) error {
				if len(applied) == 0 {
					_, err := fmt.Fprintln(w, "schema up to date")
					return err
				}
				for _, version := range applied {
					fmt.Fprintf(w, "applied %s\n", version)
				}
				return nil
			})
		},
	}
}

// migrate returns the versions it applied. SQLite applies its embedded schema
// on open and reports none.
func migrate(cmd *cobra.Command, cfg config.Config) ([]string, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return []string{}, st.Close()
	}
	pool, err := db.Connect(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return db.Migrate(cmd.Context(), pool, db.Migrations())
}
