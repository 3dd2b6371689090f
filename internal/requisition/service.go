package requisition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/inventory"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetCall(ctx context.Context, id int64) (Call, error)
	GetCallProducts(ctx context.Context, callID int64) ([]CallProduct, error)
	GetRequisition(ctx context.Context, id int64) (Requisition, []Item, error)
	ListCalls(ctx context.Context, filter CallFilter, limit, offset int) ([]Call, int, error)
	ListRequisitions(ctx context.Context, filter Filter, limit, offset int) ([]Requisition, int, error)
}

// InventoryPort posts the exit document generated on approval. The
// implementation joins the transaction carried by the context.
type InventoryPort interface {
	PostExit(ctx context.Context, input inventory.ExitInput) (inventory.Document, error)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ApprovalPort records lifecycle decisions.
type ApprovalPort interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
	EnsureSubmit(ctx context.Context, module string, ref uuid.UUID, actorID int64, note string) error
}

// IdempotencyPort guards operations against duplicate processing.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// CallFilter filters call listings.
type CallFilter struct {
	Year       int
	ActiveOnly bool
}

// Filter filters requisition listings.
type Filter struct {
	CallID      int64
	Status      Status
	AreaID      int64
	RequestedBy int64
}

// Service drives the requisition lifecycle.
type Service struct {
	repo        RepositoryPort
	inventory   InventoryPort
	approvals   ApprovalPort
	audit       AuditPort
	idempotency IdempotencyPort
	notify      NotifyPort
	logger      *slog.Logger
	loc         *time.Location
	now         func() time.Time
}

// ServiceConfig groups construction options.
type ServiceConfig struct {
	// Location is the warehouse-local timezone call windows are
	// evaluated in. Required; windows never use the process timezone.
	Location *time.Location
}

// NewService constructs the requisition service.
func NewService(repo RepositoryPort, inv InventoryPort, approvals ApprovalPort, audit AuditPort, idem IdempotencyPort, notify NotifyPort, logger *slog.Logger, cfg ServiceConfig) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		inventory:   inv,
		approvals:   approvals,
		audit:       audit,
		idempotency: idem,
		notify:      notify,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateCallInput describes a new capture window.
type CreateCallInput struct {
	Year      int
	Month     int
	Title     string
	OpenAt    time.Time
	CloseAt   time.Time
	CreatedBy int64
	Products  []CallProductInput
}

// CallProductInput enables or disables a product within a call.
type CallProductInput struct {
	ProductID int64
	IsEnabled bool
}

// UpdateCallInput carries partial call edits; nil fields stay unchanged.
type UpdateCallInput struct {
	Title    *string
	OpenAt   *time.Time
	CloseAt  *time.Time
	IsActive *bool
}

// ItemInput overwrites one existing draft item.
type ItemInput struct {
	ItemID       int64
	RequestedQty float64
	UnitID       int64
	Notes        string
}

// ApprovalItemInput sets the approved quantity for one item.
type ApprovalItemInput struct {
	ItemID      int64
	ApprovedQty float64
}

// CreateDraftInput seeds a new draft against a call.
type CreateDraftInput struct {
	CallID    int64
	AreaID    int64
	SubareaID int64
	ActorID   int64
}

// ApproveInput approves a SENT requisition and posts its exit.
type ApproveInput struct {
	RequisitionID int64
	ActorID       int64
	WarehouseID   int64
	Items         []ApprovalItemInput
}

func validateWindow(openAt, closeAt time.Time) error {
	if closeAt.Before(openAt) {
		return fmt.Errorf("%w: close_at before open_at", ErrValidation)
	}
	if closeAt.Sub(openAt) > MaxCallSpan {
		return fmt.Errorf("%w: window longer than 10 days", ErrValidation)
	}
	return nil
}

// CreateCall creates a capture window and its enabled product list in one
// transaction.
func (s *Service) CreateCall(ctx context.Context, input CreateCallInput) (Call, error) {
	if input.Title == "" {
		return Call{}, fmt.Errorf("%w: title required", ErrValidation)
	}
	if input.OpenAt.IsZero() || input.CloseAt.IsZero() {
		return Call{}, fmt.Errorf("%w: open_at and close_at required", ErrValidation)
	}
	if err := validateWindow(input.OpenAt, input.CloseAt); err != nil {
		return Call{}, err
	}
	call := Call{
		Year:      input.Year,
		Month:     input.Month,
		Title:     input.Title,
		OpenAt:    input.OpenAt,
		CloseAt:   input.CloseAt,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertCall(ctx, call)
		if err != nil {
			return err
		}
		call.ID = id
		for _, product := range input.Products {
			if product.ProductID == 0 {
				return fmt.Errorf("%w: product required", ErrValidation)
			}
			if err := tx.UpsertCallProduct(ctx, CallProduct{CallID: id, ProductID: product.ProductID, IsEnabled: product.IsEnabled}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Call{}, err
	}
	s.recordAudit(ctx, input.CreatedBy, "CALL_CREATE", call.ID, map[string]any{"title": call.Title, "open_at": call.OpenAt, "close_at": call.CloseAt})
	return call, nil
}

// UpdateCall edits call metadata. Window ordering is checked against the
// effective dates: a single supplied date is validated against the stored
// counterpart.
func (s *Service) UpdateCall(ctx context.Context, id int64, input UpdateCallInput) (Call, error) {
	call, err := s.repo.GetCall(ctx, id)
	if err != nil {
		return Call{}, err
	}
	if input.Title != nil {
		if *input.Title == "" {
			return Call{}, fmt.Errorf("%w: title required", ErrValidation)
		}
		call.Title = *input.Title
	}
	if input.OpenAt != nil {
		call.OpenAt = *input.OpenAt
	}
	if input.CloseAt != nil {
		call.CloseAt = *input.CloseAt
	}
	if input.IsActive != nil {
		call.IsActive = *input.IsActive
	}
	if err := validateWindow(call.OpenAt, call.CloseAt); err != nil {
		return Call{}, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateCall(ctx, call)
	})
	if err != nil {
		return Call{}, err
	}
	s.recordAudit(ctx, 0, "CALL_UPDATE", call.ID, map[string]any{"open_at": call.OpenAt, "close_at": call.CloseAt, "is_active": call.IsActive})
	return call, nil
}

// DeleteCall soft-deletes a call. Calls are never hard-deleted.
func (s *Service) DeleteCall(ctx context.Context, id int64, actorID int64) error {
	if _, err := s.repo.GetCall(ctx, id); err != nil {
		return err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SoftDeleteCall(ctx, id, s.now())
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "CALL_DELETE", id, nil)
	return nil
}

// SyncProducts upserts the call catalog by (call_id, product_id). Omitting
// a product never removes it; disabling requires an explicit
// is_enabled=false.
func (s *Service) SyncProducts(ctx context.Context, callID int64, products []CallProductInput) error {
	if _, err := s.repo.GetCall(ctx, callID); err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: at least one product required", ErrValidation)
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for _, product := range products {
			if product.ProductID == 0 {
				return fmt.Errorf("%w: product required", ErrValidation)
			}
			if err := tx.UpsertCallProduct(ctx, CallProduct{CallID: callID, ProductID: product.ProductID, IsEnabled: product.IsEnabled}); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateDraft opens a draft against a call. The window check is an exact
// timestamp comparison, unlike Send's day-granularity check; both are the
// documented contract.
func (s *Service) CreateDraft(ctx context.Context, input CreateDraftInput) (Requisition, []Item, error) {
	if input.ActorID == 0 {
		return Requisition{}, nil, fmt.Errorf("%w: actor required", ErrForbidden)
	}
	call, err := s.repo.GetCall(ctx, input.CallID)
	if err != nil {
		return Requisition{}, nil, err
	}
	if !call.IsActive {
		return Requisition{}, nil, ErrCallInactive
	}
	now := s.now().In(s.loc)
	if now.Before(call.OpenAt) || now.After(call.CloseAt) {
		return Requisition{}, nil, ErrWindowClosed
	}
	products, err := s.repo.GetCallProducts(ctx, input.CallID)
	if err != nil {
		return Requisition{}, nil, err
	}
	req := Requisition{
		CallID:      input.CallID,
		AreaID:      input.AreaID,
		SubareaID:   input.SubareaID,
		RequestedBy: input.ActorID,
		Status:      StatusDraft,
	}
	var items []Item
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertRequisition(ctx, req)
		if err != nil {
			return err
		}
		req.ID = id
		for _, product := range products {
			if !product.IsEnabled {
				continue
			}
			item := Item{RequisitionID: id, ProductID: product.ProductID}
			itemID, err := tx.InsertItem(ctx, item)
			if err != nil {
				return err
			}
			item.ID = itemID
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return Requisition{}, nil, err
	}
	s.recordAudit(ctx, input.ActorID, "REQ_CREATE", req.ID, map[string]any{"call_id": req.CallID, "items": len(items)})
	return req, items, nil
}

// SaveDraft overwrites requested qty, unit and notes on existing items.
// Adding or removing items is rejected.
func (s *Service) SaveDraft(ctx context.Context, requisitionID int64, actorID int64, inputs []ItemInput) error {
	req, items, err := s.repo.GetRequisition(ctx, requisitionID)
	if err != nil {
		return err
	}
	if req.RequestedBy != actorID {
		return ErrForbidden
	}
	if req.Status != StatusDraft {
		return ErrInvalidState
	}
	existing := make(map[int64]Item, len(items))
	for _, item := range items {
		existing[item.ID] = item
	}
	for _, input := range inputs {
		if _, ok := existing[input.ItemID]; !ok {
			return fmt.Errorf("%w: unknown item %d", ErrValidation, input.ItemID)
		}
		if input.RequestedQty < 0 {
			return fmt.Errorf("%w: requested qty must be >= 0", ErrValidation)
		}
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetRequisitionForUpdate(ctx, requisitionID)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft {
			return ErrInvalidState
		}
		for _, input := range inputs {
			item := existing[input.ItemID]
			item.RequestedQty = input.RequestedQty
			item.UnitID = input.UnitID
			item.Notes = input.Notes
			if err := tx.UpdateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Send submits a requisition for approval. Re-entrant from SENT. The
// window check is day-granularity in the warehouse timezone, looser than
// CreateDraft's exact comparison.
func (s *Service) Send(ctx context.Context, requisitionID int64, actorID int64) error {
	req, _, err := s.repo.GetRequisition(ctx, requisitionID)
	if err != nil {
		return err
	}
	if req.RequestedBy != actorID {
		return ErrForbidden
	}
	if req.Status != StatusDraft && req.Status != StatusSent {
		return ErrInvalidState
	}
	call, err := s.repo.GetCall(ctx, req.CallID)
	if err != nil {
		return err
	}
	if !call.IsActive {
		return ErrCallInactive
	}
	now := s.now().In(s.loc)
	if now.Before(startOfDay(call.OpenAt, s.loc)) || now.After(endOfDay(call.CloseAt, s.loc)) {
		return ErrWindowClosed
	}
	refID := approvalRef(requisitionID)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetRequisitionForUpdate(ctx, requisitionID)
		if err != nil {
			return err
		}
		if current.Status != StatusDraft && current.Status != StatusSent {
			return ErrInvalidState
		}
		if err := tx.MarkSent(ctx, requisitionID, s.now()); err != nil {
			return err
		}
		if s.approvals != nil {
			_ = s.approvals.EnsureSubmit(ctx, "REQUISITION", refID, actorID, fmt.Sprintf("requisition %d sent", requisitionID))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "REQ_SEND", requisitionID, map[string]any{"call_id": req.CallID})
	return nil
}

// Approve sets approved quantities, posts one exit document covering every
// line with approved qty > 0, links it and marks the requisition APPROVED.
// The exit posts through the approval transaction carried by the context,
// so a failed status change rolls the stock deduction back with it.
func (s *Service) Approve(ctx context.Context, input ApproveInput) (Requisition, error) {
	req, items, err := s.repo.GetRequisition(ctx, input.RequisitionID)
	if err != nil {
		return Requisition{}, err
	}
	if req.Status != StatusSent {
		return Requisition{}, ErrInvalidState
	}
	if len(input.Items) == 0 {
		return Requisition{}, fmt.Errorf("%w: approval items required", ErrValidation)
	}
	existing := make(map[int64]Item, len(items))
	for _, item := range items {
		existing[item.ID] = item
	}
	approved := make(map[int64]float64, len(input.Items))
	for _, line := range input.Items {
		if _, ok := existing[line.ItemID]; !ok {
			return Requisition{}, fmt.Errorf("%w: unknown item %d", ErrValidation, line.ItemID)
		}
		if line.ApprovedQty < 0 {
			return Requisition{}, fmt.Errorf("%w: approved qty must be >= 0", ErrValidation)
		}
		approved[line.ItemID] = line.ApprovedQty
	}
	var exitLines []inventory.ExitLineInput
	for _, item := range items {
		if qty, ok := approved[item.ID]; ok && qty > 0 {
			exitLines = append(exitLines, inventory.ExitLineInput{ProductID: item.ProductID, Qty: qty})
		}
	}
	if len(exitLines) > 0 && input.WarehouseID == 0 {
		return Requisition{}, fmt.Errorf("%w: warehouse required to post the exit", ErrValidation)
	}

	key := fmt.Sprintf("REQ-APPROVE:%d", input.RequisitionID)
	insertedKey := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, "requisition.approve"); err != nil {
			return Requisition{}, err
		}
		insertedKey = true
	}
	now := s.now()
	refID := approvalRef(input.RequisitionID)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetRequisitionForUpdate(ctx, input.RequisitionID)
		if err != nil {
			return err
		}
		if current.Status != StatusSent {
			return ErrInvalidState
		}
		for itemID, qty := range approved {
			if err := tx.SetItemApprovedQty(ctx, itemID, qty); err != nil {
				return err
			}
		}
		var exitID int64
		if len(exitLines) > 0 {
			if s.inventory == nil {
				return fmt.Errorf("requisition: inventory integration not configured")
			}
			doc, err := s.inventory.PostExit(ctx, inventory.ExitInput{
				Code:        fmt.Sprintf("REQ-%d", input.RequisitionID),
				WarehouseID: input.WarehouseID,
				Lines:       exitLines,
				Note:        fmt.Sprintf("requisition %d approval", input.RequisitionID),
				ActorID:     input.ActorID,
				RefModule:   "REQUISITION",
				RefID:       refID.String(),
			})
			if err != nil {
				return err
			}
			exitID = doc.ID
		}
		if err := tx.MarkApproved(ctx, input.RequisitionID, input.ActorID, now, exitID); err != nil {
			return err
		}
		req.Status = StatusApproved
		req.ApprovedBy = input.ActorID
		req.ApprovedAt = now
		req.ExitID = exitID
		if s.approvals != nil {
			_ = s.approvals.Record(ctx, shared.ApprovalLog{Module: "REQUISITION", RefID: refID, ActorID: input.ActorID, Action: shared.ApprovalApprove, Note: fmt.Sprintf("requisition %d approved", input.RequisitionID)})
		}
		return nil
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, key)
		}
		return Requisition{}, err
	}
	s.recordAudit(ctx, input.ActorID, "REQ_APPROVE", req.ID, map[string]any{"exit_id": req.ExitID, "lines": len(exitLines)})
	if s.notify != nil {
		evt := ApprovedEvent{
			RequisitionID: req.ID,
			CallID:        req.CallID,
			AreaID:        req.AreaID,
			SubareaID:     req.SubareaID,
			RequestedBy:   req.RequestedBy,
			ApprovedBy:    input.ActorID,
			ExitID:        req.ExitID,
			ApprovedAt:    now,
		}
		if err := s.notify.EnqueueApprovalNotice(ctx, evt); err != nil {
			s.logger.Warn("enqueue approval notice", slog.Int64("requisition_id", req.ID), slog.Any("error", err))
		}
	}
	return req, nil
}

// GetRequisition fetches one requisition with items.
func (s *Service) GetRequisition(ctx context.Context, id int64) (Requisition, []Item, error) {
	return s.repo.GetRequisition(ctx, id)
}

// GetCall fetches one call with its catalog.
func (s *Service) GetCall(ctx context.Context, id int64) (Call, []CallProduct, error) {
	call, err := s.repo.GetCall(ctx, id)
	if err != nil {
		return Call{}, nil, err
	}
	products, err := s.repo.GetCallProducts(ctx, id)
	if err != nil {
		return Call{}, nil, err
	}
	return call, products, nil
}

// ListCalls pages through calls.
func (s *Service) ListCalls(ctx context.Context, filter CallFilter, page, perPage int) ([]Call, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	calls, total, err := s.repo.ListCalls(ctx, filter, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return calls, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// ListMine pages through the actor's own requisitions.
func (s *Service) ListMine(ctx context.Context, actorID int64, filter Filter, page, perPage int) ([]Requisition, shared.Pagination, error) {
	if actorID == 0 {
		return nil, shared.Pagination{}, fmt.Errorf("%w: actor required", ErrForbidden)
	}
	filter.RequestedBy = actorID
	return s.list(ctx, filter, page, perPage)
}

// ListAll pages through every requisition matching the filter.
func (s *Service) ListAll(ctx context.Context, filter Filter, page, perPage int) ([]Requisition, shared.Pagination, error) {
	return s.list(ctx, filter, page, perPage)
}

func (s *Service) list(ctx context.Context, filter Filter, page, perPage int) ([]Requisition, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	reqs, total, err := s.repo.ListRequisitions(ctx, filter, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return reqs, shared.NewPagination(p.Page, p.PerPage, total), nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "requisition", EntityID: fmt.Sprintf("%d", entityID), Meta: meta})
}

func approvalRef(requisitionID int64) uuid.UUID {
	return uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("REQUISITION:%d", requisitionID)))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
