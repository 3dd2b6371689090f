package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetStockCard(ctx context.Context, filter StockCardFilter) ([]StockCardEntry, error)
	GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error)
	GetDocument(ctx context.Context, id int64) (Document, []DocumentLine, error)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates inventory ledger operations.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	idempotency *shared.IdempotencyStore
	allowNeg    bool
	now         func() time.Time
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, idem *shared.IdempotencyStore, cfg ServiceConfig) *Service {
	return &Service{repo: repo, audit: audit, idempotency: idem, allowNeg: cfg.AllowNegativeStock, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

const qtyEpsilon = 0.0001

// PostEntry posts a multi-line inbound document and recomputes the moving
// average cost of every product touched.
func (s *Service) PostEntry(ctx context.Context, input EntryInput) (Document, error) {
	if input.WarehouseID == 0 {
		return Document{}, fmt.Errorf("%w: warehouse required", ErrValidation)
	}
	if len(input.Lines) == 0 {
		return Document{}, fmt.Errorf("%w: at least one line required", ErrValidation)
	}
	for _, line := range input.Lines {
		if line.ProductID == 0 {
			return Document{}, fmt.Errorf("%w: product required", ErrValidation)
		}
		if line.Qty <= 0 {
			return Document{}, ErrInvalidQuantity
		}
		if line.UnitCost < 0 {
			return Document{}, ErrInvalidUnitCost
		}
	}
	doc := Document{
		Code:        defaultCode(input.Code, "ENT", s.now()),
		Type:        DocumentTypeEntry,
		WarehouseID: input.WarehouseID,
		ProviderID:  input.ProviderID,
		RefModule:   input.RefModule,
		RefID:       input.RefID,
		Note:        input.Note,
		PostedAt:    s.now(),
		CreatedBy:   input.ActorID,
	}
	lines := make([]DocumentLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, DocumentLine{ProductID: line.ProductID, Qty: line.Qty, UnitCost: line.UnitCost})
	}
	posted, err := s.postDocument(ctx, doc, lines)
	if err != nil {
		return Document{}, err
	}
	s.recordAudit(ctx, input.ActorID, "ENTRY_POST", posted.ID, map[string]any{"code": posted.Code, "warehouse_id": posted.WarehouseID, "lines": len(lines)})
	return posted, nil
}

// PostExit posts a multi-line outbound document. Lines are costed at the
// current moving average; any line that would drive a balance negative
// aborts the whole document.
func (s *Service) PostExit(ctx context.Context, input ExitInput) (Document, error) {
	if input.WarehouseID == 0 {
		return Document{}, fmt.Errorf("%w: warehouse required", ErrValidation)
	}
	if len(input.Lines) == 0 {
		return Document{}, fmt.Errorf("%w: at least one line required", ErrValidation)
	}
	for _, line := range input.Lines {
		if line.ProductID == 0 {
			return Document{}, fmt.Errorf("%w: product required", ErrValidation)
		}
		if line.Qty <= 0 {
			return Document{}, ErrInvalidQuantity
		}
	}
	doc := Document{
		Code:        defaultCode(input.Code, "SAL", s.now()),
		Type:        DocumentTypeExit,
		WarehouseID: input.WarehouseID,
		RefModule:   input.RefModule,
		RefID:       input.RefID,
		Note:        input.Note,
		PostedAt:    s.now(),
		CreatedBy:   input.ActorID,
	}
	lines := make([]DocumentLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, DocumentLine{ProductID: line.ProductID, Qty: -line.Qty})
	}
	posted, err := s.postDocument(ctx, doc, lines)
	if err != nil {
		return Document{}, err
	}
	s.recordAudit(ctx, input.ActorID, "EXIT_POST", posted.ID, map[string]any{"code": posted.Code, "warehouse_id": posted.WarehouseID, "lines": len(lines)})
	return posted, nil
}

// PostAdjustment posts a signed single-line correction.
func (s *Service) PostAdjustment(ctx context.Context, input AdjustmentInput) (Document, error) {
	if input.WarehouseID == 0 || input.ProductID == 0 {
		return Document{}, fmt.Errorf("%w: warehouse and product required", ErrValidation)
	}
	if math.Abs(input.Qty) < qtyEpsilon {
		return Document{}, ErrInvalidQuantity
	}
	if input.Qty > 0 && input.UnitCost < 0 {
		return Document{}, ErrInvalidUnitCost
	}
	doc := Document{
		Code:        defaultCode(input.Code, "ADJ", s.now()),
		Type:        DocumentTypeAdjust,
		WarehouseID: input.WarehouseID,
		RefModule:   input.RefModule,
		RefID:       input.RefID,
		Note:        input.Note,
		PostedAt:    s.now(),
		CreatedBy:   input.ActorID,
	}
	lines := []DocumentLine{{ProductID: input.ProductID, Qty: input.Qty, UnitCost: input.UnitCost}}
	posted, err := s.postDocument(ctx, doc, lines)
	if err != nil {
		return Document{}, err
	}
	s.recordAudit(ctx, input.ActorID, "ADJUST_POST", posted.ID, map[string]any{"code": posted.Code, "product_id": input.ProductID, "qty": input.Qty})
	return posted, nil
}

// GetStockCard lists card entries.
func (s *Service) GetStockCard(ctx context.Context, filter StockCardFilter) ([]StockCardEntry, error) {
	if filter.WarehouseID == 0 || filter.ProductID == 0 {
		return nil, fmt.Errorf("%w: warehouse and product required", ErrValidation)
	}
	return s.repo.GetStockCard(ctx, filter)
}

// GetBalances lists balances.
func (s *Service) GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error) {
	return s.repo.GetBalances(ctx, filter)
}

// GetDocument returns a posted document with its lines.
func (s *Service) GetDocument(ctx context.Context, id int64) (Document, []DocumentLine, error) {
	return s.repo.GetDocument(ctx, id)
}

// postDocument writes header, lines, balance updates and card entries in
// one transaction. Lines carry signed quantities.
func (s *Service) postDocument(ctx context.Context, doc Document, lines []DocumentLine) (Document, error) {
	if doc.RefID != "" {
		if _, err := uuid.Parse(doc.RefID); err != nil {
			return Document{}, fmt.Errorf("%w: invalid ref id", ErrValidation)
		}
	}
	key := fmt.Sprintf("%s:%s:%d", doc.Type, doc.Code, doc.WarehouseID)
	insertedKey := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, "inventory"); err != nil {
			return Document{}, err
		}
		insertedKey = true
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		docID, err := tx.InsertDocument(ctx, doc)
		if err != nil {
			return err
		}
		doc.ID = docID
		resolved := make([]DocumentLine, 0, len(lines))
		for _, line := range lines {
			balance, err := tx.GetBalanceForUpdate(ctx, doc.WarehouseID, line.ProductID)
			if err != nil && !errors.Is(err, ErrBalanceNotFound) {
				return err
			}
			if errors.Is(err, ErrBalanceNotFound) {
				balance = Balance{WarehouseID: doc.WarehouseID, ProductID: line.ProductID}
			}
			newQty := balance.Qty + line.Qty
			if !s.allowNeg && newQty < -qtyEpsilon {
				return ErrNegativeStock
			}
			var unitCost, newAvg float64
			if line.Qty > 0 {
				unitCost = line.UnitCost
				totalCost := balance.Qty*balance.AvgCost + line.Qty*unitCost
				if newQty != 0 {
					newAvg = totalCost / newQty
				}
			} else {
				unitCost = balance.AvgCost
				if math.Abs(newQty) < qtyEpsilon {
					newQty = 0
				}
				if newQty <= 0 {
					newAvg = 0
				} else {
					newAvg = balance.AvgCost
				}
			}
			balance.Qty = newQty
			balance.AvgCost = newAvg
			if err := tx.UpsertBalance(ctx, balance); err != nil {
				return err
			}
			card := StockCardEntry{
				DocCode:     doc.Code,
				DocType:     doc.Type,
				PostedAt:    doc.PostedAt,
				QtyIn:       math.Max(line.Qty, 0),
				QtyOut:      math.Max(-line.Qty, 0),
				BalanceQty:  newQty,
				UnitCost:    unitCost,
				BalanceCost: newAvg,
				Note:        doc.Note,
			}
			if err := tx.InsertCardEntry(ctx, card, doc.WarehouseID, line.ProductID, docID); err != nil {
				return err
			}
			line.UnitCost = unitCost
			resolved = append(resolved, line)
		}
		return tx.InsertDocumentLines(ctx, docID, resolved)
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, key)
		}
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "inventory_doc", EntityID: fmt.Sprintf("%d", entityID), Meta: meta})
}

func defaultCode(code, prefix string, now time.Time) string {
	if code != "" {
		return code
	}
	return fmt.Sprintf("%s-%d", prefix, now.UnixNano())
}
