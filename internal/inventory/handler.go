package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/observability"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/httpx"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// Handler exposes inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	metrics  *observability.Metrics
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), metrics: metrics}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/entries", h.postEntry)
	r.Post("/exits", h.postExit)
	r.Post("/adjustments", h.postAdjustment)
	r.Get("/documents/{id}", h.getDocument)
	r.Get("/balances", h.listBalances)
	r.Get("/card", h.getStockCard)
}

func (h *Handler) postEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	input := EntryInput{
		Code:        req.Code,
		WarehouseID: req.WarehouseID,
		ProviderID:  req.ProviderID,
		Note:        req.Note,
		ActorID:     shared.ActorFromContext(r.Context()).ID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, EntryLineInput{ProductID: line.ProductID, Qty: line.Qty, UnitCost: line.UnitCost})
	}
	doc, err := h.service.PostEntry(r.Context(), input)
	if err != nil {
		h.respondError(w, "post entry", err)
		return
	}
	h.metrics.RecordMovement(string(DocumentTypeEntry))
	httpx.JSON(w, http.StatusCreated, newDocumentResponse(doc, nil))
}

func (h *Handler) postExit(w http.ResponseWriter, r *http.Request) {
	var req exitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	input := ExitInput{
		Code:        req.Code,
		WarehouseID: req.WarehouseID,
		Note:        req.Note,
		ActorID:     shared.ActorFromContext(r.Context()).ID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, ExitLineInput{ProductID: line.ProductID, Qty: line.Qty})
	}
	doc, err := h.service.PostExit(r.Context(), input)
	if err != nil {
		h.respondError(w, "post exit", err)
		return
	}
	h.metrics.RecordMovement(string(DocumentTypeExit))
	httpx.JSON(w, http.StatusCreated, newDocumentResponse(doc, nil))
}

func (h *Handler) postAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", httpx.ValidationFields(err))
		return
	}
	doc, err := h.service.PostAdjustment(r.Context(), AdjustmentInput{
		Code:        req.Code,
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Qty:         req.Qty,
		UnitCost:    req.UnitCost,
		Note:        req.Note,
		ActorID:     shared.ActorFromContext(r.Context()).ID,
	})
	if err != nil {
		h.respondError(w, "post adjustment", err)
		return
	}
	h.metrics.RecordMovement(string(DocumentTypeAdjust))
	httpx.JSON(w, http.StatusCreated, newDocumentResponse(doc, nil))
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document id")
		return
	}
	doc, lines, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondError(w, "get document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newDocumentResponse(doc, lines))
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	warehouseID, _ := strconv.ParseInt(r.URL.Query().Get("warehouse_id"), 10, 64)
	productID, _ := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	balances, err := h.service.GetBalances(r.Context(), BalanceFilter{WarehouseID: warehouseID, ProductID: productID})
	if err != nil {
		h.respondError(w, "list balances", err)
		return
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, bal := range balances {
		out = append(out, balanceResponse{WarehouseID: bal.WarehouseID, ProductID: bal.ProductID, Qty: bal.Qty, AvgCost: bal.AvgCost})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) getStockCard(w http.ResponseWriter, r *http.Request) {
	warehouseID, _ := strconv.ParseInt(r.URL.Query().Get("warehouse_id"), 10, 64)
	productID, _ := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	filter := StockCardFilter{WarehouseID: warehouseID, ProductID: productID, Limit: limit}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	cards, err := h.service.GetStockCard(r.Context(), filter)
	if err != nil {
		h.respondError(w, "get stock card", err)
		return
	}
	out := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardResponse{
			DocCode:     card.DocCode,
			DocType:     string(card.DocType),
			PostedAt:    card.PostedAt,
			QtyIn:       card.QtyIn,
			QtyOut:      card.QtyOut,
			BalanceQty:  card.BalanceQty,
			UnitCost:    card.UnitCost,
			BalanceCost: card.BalanceCost,
			Note:        card.Note,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNegativeStock):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Negative Stock", err.Error())
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidUnitCost), errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
