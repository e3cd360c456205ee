package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"laborpay/internal/domain/audit"
	"laborpay/internal/domain/notifications"
	authhandler "laborpay/internal/transport/http/handlers/auth"
	contractshandler "laborpay/internal/transport/http/handlers/contracts"
	notificationshandler "laborpay/internal/transport/http/handlers/notifications"
	paymentshandler "laborpay/internal/transport/http/handlers/payments"
	payrollhandler "laborpay/internal/transport/http/handlers/payroll"
	reportshandler "laborpay/internal/transport/http/handlers/reports"
	"laborpay/internal/transport/http/middleware"
)

func (a *App) routes(auditSvc *audit.Service, notificationSvc *notifications.Service) http.Handler {
	cfg := a.Config

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Unread-Count", "X-Receipt-Location"},
		AllowCredentials: true,
	}).Handler)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(a.Auth))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Store.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(a.Auth).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)

			contractshandler.NewHandler(a.Contracts, auditSvc, a.Metrics).RegisterRoutes(r)
			paymentshandler.NewHandler(a.Payments, a.Metrics).RegisterRoutes(r)
			payrollhandler.NewHandler(a.Payments).RegisterRoutes(r)
			reportshandler.NewHandler(a.Reports).RegisterRoutes(r)
			notificationshandler.NewHandler(notificationSvc, a.Auth).RegisterRoutes(r)
		})
	})

	return router
}
