package analytics

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("analytics: not found")

// WarehouseStock aggregates quantity and valuation for one warehouse.
type WarehouseStock struct {
	WarehouseID int64   `json:"warehouse_id"`
	Products    int64   `json:"products"`
	TotalQty    float64 `json:"total_qty"`
	TotalValue  float64 `json:"total_value"`
}

// ProductValuation ranks a product by the value it holds in stock.
type ProductValuation struct {
	ProductID  int64   `json:"product_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	TotalQty   float64 `json:"total_qty"`
	TotalValue float64 `json:"total_value"`
}

// StockSummary is the warehouse level stock report.
type StockSummary struct {
	Warehouses  []WarehouseStock   `json:"warehouses"`
	TopProducts []ProductValuation `json:"top_products"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// StatusCount counts requisitions in one lifecycle status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CallFulfilment compares requested and approved quantities for one call.
type CallFulfilment struct {
	CallID         int64         `json:"call_id"`
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	Title          string        `json:"title"`
	TotalRequested float64       `json:"total_requested"`
	TotalApproved  float64       `json:"total_approved"`
	ByStatus       []StatusCount `json:"by_status"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// FleetBucket counts vehicles for one area and status pair.
type FleetBucket struct {
	AreaID int64  `json:"area_id"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// FleetComposition is the vehicle census report.
type FleetComposition struct {
	Buckets     []FleetBucket `json:"buckets"`
	Total       int64         `json:"total"`
	GeneratedAt time.Time     `json:"generated_at"`
}
