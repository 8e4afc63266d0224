package analytics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kasonde-dev/stockpilot-backend/internal/httpx"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
)

// Handler exposes the analytics endpoint.
type Handler struct {
	service Service
	tokens  *auth.TokenService
}

func NewHandler(service Service, tokens *auth.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(h.tokens.Require)
		r.Get("/", h.report) // GET /api/analytics?period=<days>
	})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	period := 30
	if raw := r.URL.Query().Get("period"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			period = n
		}
	}
	report, err := h.service.Report(r.Context(), period)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}
