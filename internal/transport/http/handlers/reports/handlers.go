package reportshandler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/reports"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/monthly", h.handleMonthly)
		r.Get("/monthly.csv", h.handleMonthlyCSV)
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/reminders", h.handleReminders)
	})
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Monthly(r.Context(), r.URL.Query().Get("contractId"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if rows == nil {
		rows = []reports.MonthlyRow{}
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMonthlyCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.ExportCSV(r.Context(), &buf, r.URL.Query().Get("contractId")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reporte-mensual.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.Service.Reminders(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, reminders, middleware.GetRequestID(r.Context()))
}
