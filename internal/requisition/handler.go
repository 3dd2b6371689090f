package requisition

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

// Handler exposes requisition and call endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers call and requisition routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/requisition-calls", func(r chi.Router) {
		r.Post("/", h.createCall)
		r.Get("/", h.listCalls)
		r.Get("/{id}", h.getCall)
		r.Patch("/{id}", h.updateCall)
		r.Delete("/{id}", h.deleteCall)
		r.Put("/{id}/products", h.syncProducts)
	})
	r.Route("/requisitions", func(r chi.Router) {
		r.Post("/", h.createDraft)
		r.Get("/", h.listAll)
		r.Get("/mine", h.listMine)
		r.Get("/{id}", h.getRequisition)
		r.Put("/{id}/items", h.saveDraft)
		r.Post("/{id}/send", h.send)
		r.Post("/{id}/approve", h.approve)
	})
}

func (h *Handler) createCall(w http.ResponseWriter, r *http.Request) {
	var req createCallRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	input := CreateCallInput{
		Year:      req.Year,
		Month:     req.Month,
		Title:     req.Title,
		OpenAt:    req.OpenAt,
		CloseAt:   req.CloseAt,
		CreatedBy: shared.ActorFromContext(r.Context()).ID,
	}
	for _, product := range req.Products {
		input.Products = append(input.Products, CallProductInput{ProductID: product.ProductID, IsEnabled: product.IsEnabled})
	}
	call, err := h.service.CreateCall(r.Context(), input)
	if err != nil {
		h.respondError(w, "create call", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newCallResponse(call, nil))
}

func (h *Handler) listCalls(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	filter := CallFilter{Year: year, ActiveOnly: r.URL.Query().Get("active") == "true"}
	calls, pagination, err := h.service.ListCalls(r.Context(), filter, page, perPage)
	if err != nil {
		h.respondError(w, "list calls", err)
		return
	}
	out := make([]callResponse, 0, len(calls))
	for _, call := range calls {
		out = append(out, newCallResponse(call, nil))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": out, "pagination": pagination})
}

func (h *Handler) getCall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	call, products, err := h.service.GetCall(r.Context(), id)
	if err != nil {
		h.respondError(w, "get call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newCallResponse(call, products))
}

func (h *Handler) updateCall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateCallRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	call, err := h.service.UpdateCall(r.Context(), id, UpdateCallInput{
		Title:    req.Title,
		OpenAt:   req.OpenAt,
		CloseAt:  req.CloseAt,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.respondError(w, "update call", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newCallResponse(call, nil))
}

func (h *Handler) deleteCall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCall(r.Context(), id, shared.ActorFromContext(r.Context()).ID); err != nil {
		h.respondError(w, "delete call", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) syncProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req syncProductsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	products := make([]CallProductInput, 0, len(req.Products))
	for _, product := range req.Products {
		products = append(products, CallProductInput{ProductID: product.ProductID, IsEnabled: product.IsEnabled})
	}
	if err := h.service.SyncProducts(r.Context(), id, products); err != nil {
		h.respondError(w, "sync products", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	requisition, items, err := h.service.CreateDraft(r.Context(), CreateDraftInput{
		CallID:    req.CallID,
		AreaID:    req.AreaID,
		SubareaID: req.SubareaID,
		ActorID:   shared.ActorFromContext(r.Context()).ID,
	})
	if err != nil {
		h.respondError(w, "create draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newRequisitionResponse(requisition, items))
}

func (h *Handler) getRequisition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	requisition, items, err := h.service.GetRequisition(r.Context(), id)
	if err != nil {
		h.respondError(w, "get requisition", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newRequisitionResponse(requisition, items))
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req saveDraftRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	items := make([]ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ItemInput{ItemID: item.ItemID, RequestedQty: item.RequestedQty, UnitID: item.UnitID, Notes: item.Notes})
	}
	if err := h.service.SaveDraft(r.Context(), id, shared.ActorFromContext(r.Context()).ID, items); err != nil {
		h.respondError(w, "save draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Send(r.Context(), id, shared.ActorFromContext(r.Context()).ID); err != nil {
		h.respondError(w, "send requisition", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	input := ApproveInput{
		RequisitionID: id,
		ActorID:       shared.ActorFromContext(r.Context()).ID,
		WarehouseID:   req.WarehouseID,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ApprovalItemInput{ItemID: item.ItemID, ApprovedQty: item.ApprovedQty})
	}
	requisition, err := h.service.Approve(r.Context(), input)
	if err != nil {
		h.respondError(w, "approve requisition", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newRequisitionResponse(requisition, nil))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, mineOnly bool) {
	callID, _ := strconv.ParseInt(r.URL.Query().Get("call_id"), 10, 64)
	areaID, _ := strconv.ParseInt(r.URL.Query().Get("area_id"), 10, 64)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	filter := Filter{CallID: callID, AreaID: areaID, Status: Status(r.URL.Query().Get("status"))}

	var (
		reqs       []Requisition
		pagination shared.Pagination
		err        error
	)
	if mineOnly {
		reqs, pagination, err = h.service.ListMine(r.Context(), shared.ActorFromContext(r.Context()).ID, filter, page, perPage)
	} else {
		reqs, pagination, err = h.service.ListAll(r.Context(), filter, page, perPage)
	}
	if err != nil {
		h.respondError(w, "list requisitions", err)
		return
	}
	out := make([]requisitionResponse, 0, len(reqs))
	for _, requisition := range reqs {
		out = append(out, newRequisitionResponse(requisition, nil))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": out, "pagination": pagination})
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrForbidden):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, ErrWindowClosed), errors.Is(err, ErrCallInactive), errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}
