package inventory

import (
	"errors"
	"time"
)

// DocumentType enumerates supported ledger movements.
type DocumentType string

const (
	// DocumentTypeEntry represents an inbound document.
	DocumentTypeEntry DocumentType = "IN"
	// DocumentTypeExit represents an outbound document.
	DocumentTypeExit DocumentType = "OUT"
	// DocumentTypeAdjust indicates a manual correction.
	DocumentTypeAdjust DocumentType = "ADJUST"
)

// Document models the header of an inventory movement document.
type Document struct {
	ID          int64
	Code        string
	Type        DocumentType
	WarehouseID int64
	ProviderID  int64
	RefModule   string
	RefID       string
	Note        string
	PostedAt    time.Time
	CreatedBy   int64
	CreatedAt   time.Time
}

// DocumentLine models one product movement within a document. Qty is
// signed: positive for inbound, negative for outbound.
type DocumentLine struct {
	ID         int64
	DocumentID int64
	ProductID  int64
	Qty        float64
	UnitCost   float64
}

// Balance summarises stock per warehouse per product.
type Balance struct {
	WarehouseID int64
	ProductID   int64
	Qty         float64
	AvgCost     float64
	UpdatedAt   time.Time
}

// StockCardEntry describes one inventory card row for reports.
type StockCardEntry struct {
	DocCode     string
	DocType     DocumentType
	PostedAt    time.Time
	QtyIn       float64
	QtyOut      float64
	BalanceQty  float64
	UnitCost    float64
	BalanceCost float64
	Note        string
}

// EntryLineInput is one inbound line.
type EntryLineInput struct {
	ProductID int64
	Qty       float64
	UnitCost  float64
}

// EntryInput describes an inbound document.
type EntryInput struct {
	Code        string
	WarehouseID int64
	ProviderID  int64
	Lines       []EntryLineInput
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

// ExitLineInput is one outbound line; cost is resolved from the balance.
type ExitLineInput struct {
	ProductID int64
	Qty       float64
}

// ExitInput describes an outbound document.
type ExitInput struct {
	Code        string
	WarehouseID int64
	Lines       []ExitLineInput
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

// AdjustmentInput describes a signed single-line correction.
type AdjustmentInput struct {
	Code        string
	WarehouseID int64
	ProductID   int64
	Qty         float64
	UnitCost    float64
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

// StockCardFilter filters card entries.
type StockCardFilter struct {
	WarehouseID int64
	ProductID   int64
	From        time.Time
	To          time.Time
	Limit       int
}

// BalanceFilter filters balance listings.
type BalanceFilter struct {
	WarehouseID int64
	ProductID   int64
}

// ErrNegativeStock is returned when a movement would drive qty below zero.
var ErrNegativeStock = errors.New("inventory: negative stock not allowed")

// ErrInvalidQuantity indicates a zero or wrong-signed qty.
var ErrInvalidQuantity = errors.New("inventory: invalid quantity")

// ErrInvalidUnitCost indicates a negative unit cost.
var ErrInvalidUnitCost = errors.New("inventory: unit cost must be >= 0")

// ErrNotFound indicates a missing record.
var ErrNotFound = errors.New("inventory: not found")

// ErrValidation indicates invalid input.
var ErrValidation = errors.New("inventory: invalid input")
