package analytics

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/httpx"
)

// Handler exposes the read-only report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock-summary", h.stockSummary)
	r.Get("/call-fulfilment/{callID}", h.callFulfilment)
	r.Get("/fleet-composition", h.fleetComposition)
	r.Post("/cache/invalidate", h.invalidate)
}

func (h *Handler) stockSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.StockSummary(r.Context())
	if err != nil {
		h.respondError(w, "stock summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) callFulfilment(w http.ResponseWriter, r *http.Request) {
	callID, _ := strconv.ParseInt(chi.URLParam(r, "callID"), 10, 64)
	if callID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid call id")
		return
	}
	report, err := h.service.CallFulfilment(r.Context(), callID)
	if err != nil {
		h.respondError(w, "call fulfilment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) fleetComposition(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FleetComposition(r.Context())
	if err != nil {
		h.respondError(w, "fleet composition", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.respondError(w, "cache invalidate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "call not found")
	default:
		h.logger.Error(op+" failed", slog.String("error", err.Error()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
