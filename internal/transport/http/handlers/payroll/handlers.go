package payrollhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

type Handler struct {
	Payments *payments.Service
}

func NewHandler(service *payments.Service) *Handler {
	return &Handler{Payments: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/preview", h.handlePreview)
		r.Get("/rates", h.handleRates)
	})
}

// previewRequest either names a stored contract or carries ad-hoc terms.
type previewRequest struct {
	ContractID             string  `json:"contractId"`
	Salary                 float64 `json:"salary"`
	PaymentFrequency       string  `json:"paymentFrequency"`
	OvertimeRateDiurnal    float64 `json:"overtimeRateDiurnal"`
	OvertimeRateNocturnal  float64 `json:"overtimeRateNocturnal"`
	RiskLevel              int     `json:"riskLevel"`
	HoursWorked            float64 `json:"hoursWorked"`
	OvertimeHoursDiurnal   float64 `json:"overtimeHoursDiurnal"`
	OvertimeHoursNocturnal float64 `json:"overtimeHoursNocturnal"`
}

func (p previewRequest) terms() payroll.Terms {
	return payroll.Terms{
		Salary:                p.Salary,
		Frequency:             payroll.Frequency(p.PaymentFrequency),
		OvertimeRateDiurnal:   p.OvertimeRateDiurnal,
		OvertimeRateNocturnal: p.OvertimeRateNocturnal,
		RiskLevel:             p.RiskLevel,
	}
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var payload previewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.NonNegative("hoursWorked", payload.HoursWorked)
	validator.NonNegative("overtimeHoursDiurnal", payload.OvertimeHoursDiurnal)
	validator.NonNegative("overtimeHoursNocturnal", payload.OvertimeHoursNocturnal)
	if payload.ContractID == "" {
		validator.Positive("salary", payload.Salary)
		validator.Required("paymentFrequency", payload.PaymentFrequency)
		validator.Enum("paymentFrequency", payload.PaymentFrequency, frequencyNames())
		for _, issue := range payload.terms().Check() {
			validator.Add(issue.Field, issue.Reason)
		}
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	hours := payments.Hours{
		Worked:            payload.HoursWorked,
		OvertimeDiurnal:   payload.OvertimeHoursDiurnal,
		OvertimeNocturnal: payload.OvertimeHoursNocturnal,
	}
	calc := h.Payments.Calculator()
	if payload.ContractID != "" {
		result, err := h.Payments.Preview(r.Context(), payload.ContractID, hours)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		api.Success(w, result, middleware.GetRequestID(r.Context()))
		return
	}

	terms := payload.terms()
	api.Success(w, calc.Calculate(terms, hours.Worked, hours.OvertimeDiurnal, hours.OvertimeNocturnal), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Payments.Calculator().Rates(), middleware.GetRequestID(r.Context()))
}

func frequencyNames() []string {
	out := make([]string, 0, len(payroll.Frequencies))
	for _, f := range payroll.Frequencies {
		out = append(out, string(f))
	}
	return out
}
