package contractshandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/audit"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

const maxListLimit = 200

type Handler struct {
	Service *contracts.Service
	Audit   *audit.Service
	Metrics shared.TransitionRecorder
}

func NewHandler(service *contracts.Service, auditSvc *audit.Service, metrics shared.TransitionRecorder) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: metrics}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/contracts", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{contractID}", h.handleGet)
		r.Post("/{contractID}/sign", h.handleSign)
		r.Get("/{contractID}/transitions", h.handleTransitions)
		r.Post("/{contractID}/status", h.handleStatus)
		r.Get("/{contractID}/history", h.handleHistory)
	})
}

type createRequest struct {
	WorkerEmail           string  `json:"workerEmail"`
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	StartDate             string  `json:"startDate"`
	EndDate               string  `json:"endDate"`
	Salary                float64 `json:"salary"`
	PaymentFrequency      string  `json:"paymentFrequency"`
	HoursPerWeek          int     `json:"hoursPerWeek"`
	OvertimeRateDiurnal   float64 `json:"overtimeRateDiurnal"`
	OvertimeRateNocturnal float64 `json:"overtimeRateNocturnal"`
	RiskLevel             int     `json:"riskLevel"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func statusNames() []string {
	states := contracts.Machine.States()
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	validator := shared.NewValidator()
	page := validator.Page(r.URL.Query(), contracts.DefaultListLimit, maxListLimit)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	filter := contracts.ListFilter{
		Status: contracts.Status(r.URL.Query().Get("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.List(w, items, page.Meta(len(items)), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	start, _ := validator.Date("startDate", payload.StartDate)
	end := validator.OptionalDate("endDate", payload.EndDate)
	validator.DateOrder("startDate", start, "endDate", end)
	validator.Enum("paymentFrequency", payload.PaymentFrequency,
		[]string{string(payroll.FrequencyWeekly), string(payroll.FrequencyBiweekly), string(payroll.FrequencyMonthly)})
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Create(r.Context(), contracts.CreateInput{
		WorkerEmail:           payload.WorkerEmail,
		Title:                 payload.Title,
		Description:           payload.Description,
		StartDate:             start,
		EndDate:               end,
		Salary:                payload.Salary,
		PaymentFrequency:      payroll.Frequency(payload.PaymentFrequency),
		HoursPerWeek:          payload.HoursPerWeek,
		OvertimeRateDiurnal:   payload.OvertimeRateDiurnal,
		OvertimeRateNocturnal: payload.OvertimeRateNocturnal,
		RiskLevel:             payload.RiskLevel,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.View(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	signed, err := h.Service.Sign(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, signed, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTransitions(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.View(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"status":       view.Status,
		"presentation": view.Presentation,
		"transitions":  view.Transitions,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("status", payload.Status)
	validator.Enum("status", payload.Status, statusNames())
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Service.Transition(r.Context(), chi.URLParam(r, "contractID"), contracts.Status(payload.Status))
	shared.RecordTransition(h.Metrics, contracts.EntityName, err)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.Service.Get(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	events, err := h.Audit.History(r.Context(), contracts.EntityName, c.ID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
