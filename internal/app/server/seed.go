package server

import (
	"context"
	"errors"
	"log/slog"

	"laborpay/internal/domain/auth"
	"laborpay/internal/platform/config"
)

// Seed creates the demo employer and, when configured, a demo worker. Existing
// accounts are left untouched.
func Seed(ctx context.Context, svc *auth.Service, cfg config.Config) error {
	accounts := []auth.SignUpInput{{
		Email:    cfg.SeedEmployerEmail,
		Password: cfg.SeedPassword,
		FullName: "Empleador Demo",
		Role:     auth.RoleEmployer,
	}}
	if cfg.SeedWorkerEmail != "" {
		accounts = append(accounts, auth.SignUpInput{
			Email:    cfg.SeedWorkerEmail,
			Password: cfg.SeedPassword,
			FullName: "Trabajador Demo",
			Role:     auth.RoleWorker,
		})
	}
	for _, in := range accounts {
		profile, err := svc.SignUp(ctx, in)
		if errors.Is(err, auth.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return err
		}
		slog.Info("seeded account", "email", profile.Email, "role", profile.Role)
	}
	return nil
}
