package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laborpay/internal/domain/audit"
	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/reports"
	"laborpay/internal/platform/config"
	"laborpay/internal/platform/db"
	"laborpay/internal/platform/jobs"
	"laborpay/internal/platform/metrics"
	"laborpay/internal/platform/storage"
	"laborpay/internal/store/postgres"
	"laborpay/internal/store/sqlite"
)

// Store is everything the services need from persistence. Both the Postgres
// and the SQLite stores satisfy it.
type Store interface {
	auth.StoreAPI
	contracts.StoreAPI
	payments.StoreAPI
	notifications.StoreAPI
	audit.StoreAPI
	jobs.RunStore
	Ping(ctx context.Context) error
}

type App struct {
	Config     config.Config
	Store      Store
	Router     http.Handler
	Auth       *auth.Service
	Contracts  *contracts.Service
	Payments   *payments.Service
	Reports    *reports.Service
	Dispatcher *reports.Dispatcher
	Jobs       *jobs.Service
	Metrics    *metrics.Collector

	closers []func()
}

// New opens the configured store and wires every service and route. It does
// not start background jobs; Run does.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		slog.Warn("JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
		cfg.JWTSecret = secret
	}

	app := &App{Config: cfg, Metrics: metrics.New()}
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)

	rates, err := payroll.LoadRates(cfg.RatesFile)
	if err != nil {
		app.Close()
		return nil, err
	}

	auditSvc := audit.New(store)
	notificationSvc := notifications.New(store)
	identity := auth.ContextIdentity{}

	app.Auth = auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
	app.Contracts = contracts.NewService(store, app.Auth, identity,
		contracts.WithRates(rates),
		contracts.WithTimeout(cfg.TransitionTimeout),
		contracts.WithAuditor(auditSvc),
		contracts.WithNotifier(notificationSvc),
	)

	paymentOpts := []payments.Option{
		payments.WithCalculator(payroll.NewCalculator(rates)),
		payments.WithTimeout(cfg.TransitionTimeout),
		payments.WithAuditor(auditSvc),
		payments.WithNotifier(notificationSvc),
	}
	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	if blobs != nil {
		paymentOpts = append(paymentOpts, payments.WithBlobStore(blobs))
	}
	app.Payments = payments.NewService(store, store, app.Auth, identity, paymentOpts...)

	app.Reports = reports.NewService(app.Contracts, app.Contracts, app.Payments)
	app.Dispatcher = reports.NewDispatcher(store, store, notificationSvc)
	app.Jobs = jobs.New(store)

	if cfg.RunSeed {
		if err := Seed(ctx, app.Auth, cfg); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	app.Router = app.routes(auditSvc, notificationSvc)
	return app, nil
}

// OpenStore opens the store named by cfg.StoreDriver. The returned func
// releases it.
func OpenStore(ctx context.Context, cfg config.Config) (Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect failed: %w", err)
		}
		if cfg.RunMigrations {
			applied, err := db.Migrate(ctx, pool, db.Migrations())
			if err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrations failed: %w", err)
			}
			if len(applied) > 0 {
				slog.Info("migrations applied", "versions", applied)
			}
		}
		return postgres.New(pool), pool.Close, nil
	}
}

func openBlobStore(ctx context.Context, cfg config.Config) (payments.BlobStore, error) {
	switch {
	case cfg.ReceiptBucket != "":
		return storage.NewS3FromEnv(ctx, cfg.ReceiptBucket)
	case cfg.ReceiptDir != "":
		return storage.NewLocal(cfg.ReceiptDir), nil
	}
	return nil, nil
}

// RemindersJob sends due-date notifications for every contract.
func (a *App) RemindersJob(ctx context.Context) (any, error) {
	return a.Dispatcher.Run(ctx, time.Now())
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run serves HTTP until SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Jobs.Start(ctx, map[string]jobs.Schedule{
		jobs.JobReminders: {Interval: cfg.ReminderInterval, Run: app.RemindersJob},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown failed", "err", err)
		}
	}()

	slog.Info("laborpay server listening", "addr", cfg.Addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		return
	}
	app.Jobs.Wait()
}

func randomSecret() (string, error) {
	buff := make([]byte, 32)
	if _, err := rand.Read(buff); err != nil {
		return "", err
	}
	return hex.EncodeToString(buff), nil
}
