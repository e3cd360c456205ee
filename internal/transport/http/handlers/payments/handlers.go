package paymentshandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/payments"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

const maxListLimit = 200

type Handler struct {
	Service *payments.Service
	Metrics shared.TransitionRecorder
}

func NewHandler(service *payments.Service, metrics shared.TransitionRecorder) *Handler {
	return &Handler{Service: service, Metrics: metrics}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{paymentID}", h.handleGet)
		r.Post("/{paymentID}/status", h.handleStatus)
		r.Get("/{paymentID}/receipt", h.handleReceipt)
	})
}

type createRequest struct {
	ContractID             string  `json:"contractId"`
	PaymentDate            string  `json:"paymentDate"`
	PaymentMethod          string  `json:"paymentMethod"`
	HoursWorked            float64 `json:"hoursWorked"`
	OvertimeHoursDiurnal   float64 `json:"overtimeHoursDiurnal"`
	OvertimeHoursNocturnal float64 `json:"overtimeHoursNocturnal"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	validator := shared.NewValidator()
	page := validator.Page(r.URL.Query(), payments.DefaultListLimit, maxListLimit)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	filter := payments.ListFilter{
		Status: payments.Status(r.URL.Query().Get("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := r.URL.Query().Get("contractId"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.ContractIDs = append(filter.ContractIDs, id)
			}
		}
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
	validator.Required("contractId", payload.ContractID)
	paymentDate, _ := validator.Date("paymentDate", payload.PaymentDate)
	validator.Required("paymentMethod", payload.PaymentMethod)
	validator.Enum("paymentMethod", payload.PaymentMethod,
		[]string{string(payments.MethodBankTransfer), string(payments.MethodDigitalWallet)})
	validator.NonNegative("hoursWorked", payload.HoursWorked)
	validator.NonNegative("overtimeHoursDiurnal", payload.OvertimeHoursDiurnal)
	validator.NonNegative("overtimeHoursNocturnal", payload.OvertimeHoursNocturnal)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Create(r.Context(), payments.CreateInput{
		ContractID:    payload.ContractID,
		PaymentDate:   paymentDate,
		PaymentMethod: payments.Method(payload.PaymentMethod),
		Hours: payments.Hours{
			Worked:            payload.HoursWorked,
			OvertimeDiurnal:   payload.OvertimeHoursDiurnal,
			OvertimeNocturnal: payload.OvertimeHoursNocturnal,
		},
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.View(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
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

	updated, err := h.Service.Transition(r.Context(), chi.URLParam(r, "paymentID"), payments.Status(payload.Status))
	shared.RecordTransition(h.Metrics, payments.EntityName, err)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Service.Receipt(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(receipt.Data)))
	if receipt.Location != "" {
		w.Header().Set("X-Receipt-Location", receipt.Location)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(receipt.Data)
}

func statusNames() []string {
	states := payments.Machine.States()
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}
