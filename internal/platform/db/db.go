package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"laborpay/internal/platform/config"
)

// Connect opens the Postgres pool. When DB_SECRET_ID is set the user and
// password come from AWS Secrets Manager instead of DATABASE_URL.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.DBSecretID != "" {
		creds, err := LoadCredentials(ctx, cfg.DBSecretID, nil)
		if err != nil {
			return nil, err
		}
		poolCfg.ConnConfig.User = creds.Username
		poolCfg.ConnConfig.Password = creds.Password
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
