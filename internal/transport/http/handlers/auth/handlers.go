package authhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/auth"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignUp)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.With(middleware.RequireIdentity).Get("/me", h.HandleMe)
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	validator.Required("email", payload.Email)
	validator.Required("password", payload.Password)
	validator.Required("fullName", payload.FullName)
	validator.Required("role", payload.Role)
	validator.Enum("role", payload.Role, []string{string(auth.RoleEmployer), string(auth.RoleWorker)})
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	profile, err := h.Service.SignUp(r.Context(), auth.SignUpInput{
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
		Role:     auth.Role(payload.Role),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := h.Service.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, token, middleware.GetRequestID(r.Context()))
}

// HandleLogout has nothing to revoke; tokens are stateless and the client
// drops its copy.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	profile, err := h.Service.GetProfileByUserID(r.Context(), identity.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}
