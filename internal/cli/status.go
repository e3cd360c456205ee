package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"laborpay/internal/app/server"
	"laborpay/internal/domain/audit"
	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/platform/config"
	"laborpay/internal/requestctx"
)

type signInOptions struct {
	email    string
	password string
}

func (o *signInOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.email, "email", "", "account email")
	cmd.Flags().StringVar(&o.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// operator is a signed-in session over the configured store.
type operator struct {
	session   *auth.Session
	contracts *contracts.Service
	payments  *payments.Service
	close     func()
}

func signIn(ctx context.Context, rootOpts *RootOptions, opts *signInOptions) (*operator, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "config", err)
	}
	rates, err := payroll.LoadRates(rootOpts.RatesFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load rates", err)
	}
	store, closeStore, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		buff := make([]byte, 32)
		if _, err := rand.Read(buff); err != nil {
			closeStore()
			return nil, err
		}
		secret = hex.EncodeToString(buff)
	}
	authSvc := auth.NewService(store, secret, cfg.TokenTTL)
	session := auth.NewSession(authSvc)
	if _, err := session.SignIn(ctx, opts.email, opts.password); err != nil {
		closeStore()
		return nil, WrapExitError(ExitFailure, "sign in", err)
	}

	auditSvc := audit.New(store)
	notificationSvc := notifications.New(store)
	op := &operator{session: session, close: closeStore}
	op.contracts = contracts.NewService(store, authSvc, session,
		contracts.WithRates(rates),
		contracts.WithTimeout(cfg.TransitionTimeout),
		contracts.WithAuditor(auditSvc),
		contracts.WithNotifier(notificationSvc),
	)
	op.payments = payments.NewService(store, store, authSvc, session,
		payments.WithCalculator(payroll.NewCalculator(rates)),
		payments.WithTimeout(cfg.TransitionTimeout),
		payments.WithAuditor(auditSvc),
		payments.WithNotifier(notificationSvc),
	)
	return op, nil
}

func NewContractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Contract operations",
	}
	opts := &signInOptions{}
	statusCmd := &cobra.Command{
		Use:   "status <contract-id> <status>",
		Short: "Move a contract to a new status as the signed-in user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := requestctx.NewOperation(cmd.Context(), "cli")
			op, err := signIn(ctx, rootOpts, opts)
			if err != nil {
				return err
			}
			defer op.close()
			defer op.session.SignOut()

			updated, err := op.contracts.Transition(ctx, args[0], contracts.Status(args[1]))
			if err != nil {
				return WrapExitError(ExitFailure, "contract status", err)
			}
			return rootOpts.formatter(cmd).Success(updated, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "contract %s is now %s\n", updated.ID, updated.Status)
				return err
			})
		},
	}
	opts.bind(statusCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

func NewPaymentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payment operations",
	}
	opts := &signInOptions{}
	statusCmd := &cobra.Command{
		Use:   "status <payment-id> <status>",
		Short: "Move a payment to a new status as the signed-in user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := requestctx.NewOperation(cmd.Context(), "cli")
			op, err := signIn(ctx, rootOpts, opts)
			if err != nil {
				return err
			}
			defer op.close()
			defer op.session.SignOut()

			updated, err := op.payments.Transition(ctx, args[0], payments.Status(args[1]))
			if err != nil {
				return WrapExitError(ExitFailure, "payment status", err)
			}
			return rootOpts.formatter(cmd).Success(updated, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "payment %s is now %s\n", updated.ID, updated.Status)
				return err
			})
		},
	}
	opts.bind(statusCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}
