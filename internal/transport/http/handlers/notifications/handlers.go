package notificationshandler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/transport/http/api"
	"laborpay/internal/transport/http/middleware"
	"laborpay/internal/transport/http/shared"
)

type Handler struct {
	Service  *notifications.Service
	Profiles auth.ProfileLookup
}

func NewHandler(service *notifications.Service, profiles auth.ProfileLookup) *Handler {
	return &Handler{Service: service, Profiles: profiles}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) (auth.Profile, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.Profile{}, false
	}
	profile, err := h.Profiles.GetProfileByUserID(r.Context(), identity.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return auth.Profile{}, false
	}
	return profile, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	validator := shared.NewValidator()
	page := validator.Page(r.URL.Query(), notifications.DefaultLimit, notifications.MaxLimit)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	unread, err := h.Service.CountUnread(r.Context(), profile.ID)
	if err != nil {
		slog.Warn("notification count failed", "err", err)
	}

	items, err := h.Service.List(r.Context(), profile.ID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if items == nil {
		items = []notifications.Notification{}
	}

	w.Header().Set("X-Unread-Count", strconv.Itoa(unread))
	api.List(w, items, page.Meta(len(items)), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profile(w, r)
	if !ok {
		return
	}

	if err := h.Service.MarkRead(r.Context(), profile.ID, chi.URLParam(r, "notificationID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, middleware.GetRequestID(r.Context()))
}
