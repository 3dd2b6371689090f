package fleet

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/httpx"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// Handler exposes fleet endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/assign", h.assign)
		r.Delete("/{id}", h.delete)
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Status: VehicleStatus(q.Get("status")),
		Search: q.Get("search"),
	}
	filter.AreaID, _ = strconv.ParseInt(q.Get("area_id"), 10, 64)
	filter.SubareaID, _ = strconv.ParseInt(q.Get("subarea_id"), 10, 64)
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	vehicles, page, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list vehicles", err)
		return
	}
	items := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, newVehicleResponse(v))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items, "pagination": page})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.Get(r.Context(), pathID(r))
	if err != nil {
		h.respondError(w, "get vehicle", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newVehicleResponse(vehicle))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	vehicle, err := h.service.Create(r.Context(), CreateInput{
		ActorID:   shared.ActorFromContext(r.Context()).ID,
		Plate:     req.Plate,
		Brand:     req.Brand,
		Model:     req.Model,
		Year:      req.Year,
		AreaID:    req.AreaID,
		SubareaID: req.SubareaID,
		Status:    VehicleStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(w, "create vehicle", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newVehicleResponse(vehicle))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	vehicle, err := h.service.Update(r.Context(), pathID(r), UpdateInput{
		ActorID:   shared.ActorFromContext(r.Context()).ID,
		Plate:     req.Plate,
		Brand:     req.Brand,
		Model:     req.Model,
		Year:      req.Year,
		AreaID:    req.AreaID,
		SubareaID: req.SubareaID,
		Status:    VehicleStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(w, "update vehicle", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newVehicleResponse(vehicle))
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	actor := shared.ActorFromContext(r.Context())
	vehicle, err := h.service.Assign(r.Context(), pathID(r), actor.ID, req.AreaID, req.SubareaID)
	if err != nil {
		h.respondError(w, "assign vehicle", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newVehicleResponse(vehicle))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if err := h.service.Delete(r.Context(), pathID(r), actor.ID); err != nil {
		h.respondError(w, "delete vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "vehicle not found")
	case errors.Is(err, ErrDuplicatePlate):
		httpx.Problem(w, http.StatusConflict, "Conflict", "plate already registered")
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	default:
		h.logger.Error(op+" failed", slog.String("error", err.Error()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
