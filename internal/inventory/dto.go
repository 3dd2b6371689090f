package inventory

import "time"

// entryLineRequest is one inbound line payload.
type entryLineRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
}

// entryRequest is the PostEntry payload.
type entryRequest struct {
	Code        string             `json:"code"`
	WarehouseID int64              `json:"warehouse_id" validate:"required,gt=0"`
	ProviderID  int64              `json:"provider_id"`
	Note        string             `json:"note"`
	Lines       []entryLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// exitLineRequest is one outbound line payload.
type exitLineRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
}

// exitRequest is the PostExit payload.
type exitRequest struct {
	Code        string            `json:"code"`
	WarehouseID int64             `json:"warehouse_id" validate:"required,gt=0"`
	Note        string            `json:"note"`
	Lines       []exitLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// adjustmentRequest is the PostAdjustment payload.
type adjustmentRequest struct {
	Code        string  `json:"code"`
	WarehouseID int64   `json:"warehouse_id" validate:"required,gt=0"`
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Qty         float64 `json:"qty" validate:"required"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
	Note        string  `json:"note"`
}

// documentResponse shapes a posted document.
type documentResponse struct {
	ID          int64          `json:"id"`
	Code        string         `json:"code"`
	Type        string         `json:"type"`
	WarehouseID int64          `json:"warehouse_id"`
	ProviderID  int64          `json:"provider_id,omitempty"`
	Note        string         `json:"note,omitempty"`
	PostedAt    time.Time      `json:"posted_at"`
	Lines       []lineResponse `json:"lines,omitempty"`
}

type lineResponse struct {
	ProductID int64   `json:"product_id"`
	Qty       float64 `json:"qty"`
	UnitCost  float64 `json:"unit_cost"`
}

func newDocumentResponse(doc Document, lines []DocumentLine) documentResponse {
	resp := documentResponse{
		ID:          doc.ID,
		Code:        doc.Code,
		Type:        string(doc.Type),
		WarehouseID: doc.WarehouseID,
		ProviderID:  doc.ProviderID,
		Note:        doc.Note,
		PostedAt:    doc.PostedAt,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, lineResponse{ProductID: line.ProductID, Qty: line.Qty, UnitCost: line.UnitCost})
	}
	return resp
}

// balanceResponse shapes one stock balance.
type balanceResponse struct {
	WarehouseID int64   `json:"warehouse_id"`
	ProductID   int64   `json:"product_id"`
	Qty         float64 `json:"qty"`
	AvgCost     float64 `json:"avg_cost"`
}

// cardResponse shapes one stock card row.
type cardResponse struct {
	DocCode     string    `json:"doc_code"`
	DocType     string    `json:"doc_type"`
	PostedAt    time.Time `json:"posted_at"`
	QtyIn       float64   `json:"qty_in"`
	QtyOut      float64   `json:"qty_out"`
	BalanceQty  float64   `json:"balance_qty"`
	UnitCost    float64   `json:"unit_cost"`
	BalanceCost float64   `json:"balance_cost"`
	Note        string    `json:"note,omitempty"`
}
