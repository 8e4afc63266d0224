package inventory

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kasonde-dev/stockpilot-backend/internal/httpx"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	tokens  *auth.TokenService
}

func NewHandler(service Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(h.tokens.Require)

		r.Get("/", h.list)       // GET    /api/inventory
		r.Get("/{id}", h.get)    // GET    /api/inventory/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleManager))
			r.Post("/", h.create)    // POST /api/inventory
			r.Put("/{id}", h.update) // PUT  /api/inventory/{id}
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRoles(user.RoleAdmin))
			r.Delete("/{id}", h.delete) // DELETE /api/inventory/{id}
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Category: q.Get("category"),
		Status:   Status(q.Get("status")),
		Search:   q.Get("search"),
		Page:     intParam(q.Get("page"), 1),
		Limit:    intParam(q.Get("limit"), defaultPageSize),
	}

	products, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    products,
		"pagination": map[string]interface{}{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
			"pages": int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": p})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Product created successfully",
		"data":    p,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product updated successfully",
		"data":    p,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Product deleted successfully",
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
