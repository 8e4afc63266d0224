package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kasonde-dev/stockpilot-backend/internal/httpx"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
)

// Handler exposes the AI assistant endpoints.
type Handler struct {
	service Service
	tokens  *auth.TokenService
}

func NewHandler(service Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/ai", func(r chi.Router) {
		r.Use(h.tokens.Require)

		r.Post("/chat", h.chat)                            // POST /api/ai/chat
		r.Post("/generate-description", h.description)     // POST /api/ai/generate-description
		r.Get("/inventory-insights", h.inventoryInsights)  // GET  /api/ai/inventory-insights
		r.Get("/order-insights", h.orderInsights)          // GET  /api/ai/order-insights
	})
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Context string `json:"context,omitempty"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	response, err := h.service.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": response,
	})
}

func (h *Handler) description(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName string `json:"productName"`
		Category    string `json:"category"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	description, err := h.service.GenerateDescription(r.Context(), req.ProductName, req.Category)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"description": description,
	})
}

func (h *Handler) inventoryInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.InventoryInsights(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"insights": insights,
	})
}

func (h *Handler) orderInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.OrderInsights(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"insights": insights,
	})
}
