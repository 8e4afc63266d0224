package order

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/httpx"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	tokens  *auth.TokenService
}

func NewHandler(service Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(h.tokens.Require)

		r.Get("/", h.list)         // GET  /api/orders?page&limit&status&paymentStatus
		r.Post("/", h.placeOrder)  // POST /api/orders
		r.Get("/{id}", h.get)      // GET  /api/orders/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleManager))
			r.Patch("/{id}/status", h.updateStatus) // PATCH /api/orders/{id}/status
		})
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.Error(w, apperr.New(apperr.KindUnauthorized, "Unauthorized"))
		return
	}
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), caller, req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
		"data":    o,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Status:        Status(q.Get("status")),
		PaymentStatus: PaymentStatus(q.Get("paymentStatus")),
		Page:          intParam(q.Get("page"), 1),
		Limit:         intParam(q.Get("limit"), defaultPageSize),
	}
	orders, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
		"pagination": map[string]interface{}{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": o})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order updated successfully",
		"data":    o,
	})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
