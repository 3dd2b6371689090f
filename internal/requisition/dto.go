package requisition

import "time"

type callProductRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	IsEnabled bool  `json:"is_enabled"`
}

type createCallRequest struct {
	Year     int                  `json:"year" validate:"required,gte=2000"`
	Month    int                  `json:"month" validate:"required,gte=1,lte=12"`
	Title    string               `json:"title" validate:"required"`
	OpenAt   time.Time            `json:"open_at" validate:"required"`
	CloseAt  time.Time            `json:"close_at" validate:"required"`
	Products []callProductRequest `json:"products" validate:"dive"`
}

type updateCallRequest struct {
	Title    *string    `json:"title"`
	OpenAt   *time.Time `json:"open_at"`
	CloseAt  *time.Time `json:"close_at"`
	IsActive *bool      `json:"is_active"`
}

type syncProductsRequest struct {
	Products []callProductRequest `json:"products" validate:"required,min=1,dive"`
}

type createDraftRequest struct {
	CallID    int64 `json:"call_id" validate:"required,gt=0"`
	AreaID    int64 `json:"area_id" validate:"required,gt=0"`
	SubareaID int64 `json:"subarea_id" validate:"required,gt=0"`
}

type draftItemRequest struct {
	ItemID       int64   `json:"item_id" validate:"required,gt=0"`
	RequestedQty float64 `json:"requested_qty" validate:"gte=0"`
	UnitID       int64   `json:"unit_id"`
	Notes        string  `json:"notes"`
}

type saveDraftRequest struct {
	Items []draftItemRequest `json:"items" validate:"required,min=1,dive"`
}

type approvalItemRequest struct {
	ItemID      int64   `json:"item_id" validate:"required,gt=0"`
	ApprovedQty float64 `json:"approved_qty" validate:"gte=0"`
}

type approveRequest struct {
	WarehouseID int64                 `json:"warehouse_id"`
	Items       []approvalItemRequest `json:"items" validate:"required,min=1,dive"`
}

type callResponse struct {
	ID       int64             `json:"id"`
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Title    string            `json:"title"`
	OpenAt   time.Time         `json:"open_at"`
	CloseAt  time.Time         `json:"close_at"`
	IsActive bool              `json:"is_active"`
	Products []productResponse `json:"products,omitempty"`
}

type productResponse struct {
	ProductID int64 `json:"product_id"`
	IsEnabled bool  `json:"is_enabled"`
}

func newCallResponse(call Call, products []CallProduct) callResponse {
	resp := callResponse{
		ID:       call.ID,
		Year:     call.Year,
		Month:    call.Month,
		Title:    call.Title,
		OpenAt:   call.OpenAt,
		CloseAt:  call.CloseAt,
		IsActive: call.IsActive,
	}
	for _, product := range products {
		resp.Products = append(resp.Products, productResponse{ProductID: product.ProductID, IsEnabled: product.IsEnabled})
	}
	return resp
}

type requisitionResponse struct {
	ID          int64          `json:"id"`
	CallID      int64          `json:"call_id"`
	AreaID      int64          `json:"area_id"`
	SubareaID   int64          `json:"subarea_id"`
	RequestedBy int64          `json:"requested_by"`
	Status      string         `json:"status"`
	RequestedAt *time.Time     `json:"requested_at,omitempty"`
	ApprovedBy  int64          `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time     `json:"approved_at,omitempty"`
	ExitID      int64          `json:"exit_id,omitempty"`
	Items       []itemResponse `json:"items,omitempty"`
}

type itemResponse struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"product_id"`
	UnitID       int64   `json:"unit_id,omitempty"`
	RequestedQty float64 `json:"requested_qty"`
	ApprovedQty  float64 `json:"approved_qty"`
	Notes        string  `json:"notes,omitempty"`
}

func newRequisitionResponse(req Requisition, items []Item) requisitionResponse {
	resp := requisitionResponse{
		ID:          req.ID,
		CallID:      req.CallID,
		AreaID:      req.AreaID,
		SubareaID:   req.SubareaID,
		RequestedBy: req.RequestedBy,
		Status:      string(req.Status),
		ApprovedBy:  req.ApprovedBy,
		ExitID:      req.ExitID,
	}
	if !req.RequestedAt.IsZero() && req.RequestedAt.Unix() != 0 {
		at := req.RequestedAt
		resp.RequestedAt = &at
	}
	if !req.ApprovedAt.IsZero() && req.ApprovedAt.Unix() != 0 {
		at := req.ApprovedAt
		resp.ApprovedAt = &at
	}
	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			UnitID:       item.UnitID,
			RequestedQty: item.RequestedQty,
			ApprovedQty:  item.ApprovedQty,
			Notes:        item.Notes,
		})
	}
	return resp
}
