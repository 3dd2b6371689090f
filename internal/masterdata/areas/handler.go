package areas

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/areas", func(r chi.Router) {
		r.Get("/", h.listAreas)
		r.Post("/", h.createArea)
		r.Get("/{id}", h.getArea)
		r.Put("/{id}", h.updateArea)
		r.Delete("/{id}", h.deleteArea)
	})
	r.Route("/subareas", func(r chi.Router) {
		r.Get("/", h.listSubareas)
		r.Post("/", h.createSubarea)
		r.Get("/{id}", h.getSubarea)
		r.Put("/{id}", h.updateSubarea)
		r.Delete("/{id}", h.deleteSubarea)
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r)
	items, total, err := h.service.ListAreas(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewListResponse(items, total, filters))
}

func (h *Handler) getArea(w http.ResponseWriter, r *http.Request) {
	area, err := h.service.GetArea(r.Context(), pathID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, area)
}

func (h *Handler) createArea(w http.ResponseWriter, r *http.Request) {
	var in AreaInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	area, err := h.service.CreateArea(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, area)
}

func (h *Handler) updateArea(w http.ResponseWriter, r *http.Request) {
	var in AreaInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	area, err := h.service.UpdateArea(r.Context(), pathID(r), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, area)
}

func (h *Handler) deleteArea(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArea(r.Context(), pathID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSubareas(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r)
	items, total, err := h.service.ListSubareas(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewListResponse(items, total, filters))
}

func (h *Handler) getSubarea(w http.ResponseWriter, r *http.Request) {
	subarea, err := h.service.GetSubarea(r.Context(), pathID(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, subarea)
}

func (h *Handler) createSubarea(w http.ResponseWriter, r *http.Request) {
	var in SubareaInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	subarea, err := h.service.CreateSubarea(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, subarea)
}

func (h *Handler) updateSubarea(w http.ResponseWriter, r *http.Request) {
	var in SubareaInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	subarea, err := h.service.UpdateSubarea(r.Context(), pathID(r), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, subarea)
}

func (h *Handler) deleteSubarea(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSubarea(r.Context(), pathID(r)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "resource not found", "")
	case errors.Is(err, shared.ErrInUse):
		httpx.Problem(w, http.StatusConflict, "resource in use", err.Error())
	case errors.Is(err, shared.ErrInvalidID):
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "")
	case errors.Is(err, shared.ErrRequiredField), errors.Is(err, shared.ErrValidation):
		httpx.Problem(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
	default:
		h.logger.Error("area request failed", slog.String("error", err.Error()))
		httpx.Problem(w, http.StatusInternalServerError, "internal server error", "")
	}
}
