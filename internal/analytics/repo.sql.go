package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WarehouseStocks(ctx context.Context) ([]WarehouseStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT warehouse_id,
		       COUNT(*) FILTER (WHERE qty > 0),
		       COALESCE(SUM(qty), 0),
		       COALESCE(SUM(qty * avg_cost), 0)
		FROM inventory_balances
		GROUP BY warehouse_id
		ORDER BY warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("warehouse stocks: %w", err)
	}
	defer rows.Close()

	var out []WarehouseStock
	for rows.Next() {
		var ws WarehouseStock
		if err := rows.Scan(&ws.WarehouseID, &ws.Products, &ws.TotalQty, &ws.TotalValue); err != nil {
			return nil, fmt.Errorf("scan warehouse stock: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *Repository) TopProductsByValue(ctx context.Context, limit int) ([]ProductValuation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.product_id,
		       COALESCE(p.code, ''),
		       COALESCE(p.name, ''),
		       COALESCE(SUM(b.qty), 0),
		       COALESCE(SUM(b.qty * b.avg_cost), 0) AS total_value
		FROM inventory_balances b
		LEFT JOIN products p ON p.id = b.product_id
		GROUP BY b.product_id, p.code, p.name
		HAVING COALESCE(SUM(b.qty), 0) > 0
		ORDER BY total_value DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var out []ProductValuation
	for rows.Next() {
		var pv ProductValuation
		if err := rows.Scan(&pv.ProductID, &pv.Code, &pv.Name, &pv.TotalQty, &pv.TotalValue); err != nil {
			return nil, fmt.Errorf("scan product valuation: %w", err)
		}
		out = append(out, pv)
	}
	return out, rows.Err()
}

func (r *Repository) CallFulfilment(ctx context.Context, callID int64) (CallFulfilment, error) {
	var cf CallFulfilment
	err := r.pool.QueryRow(ctx, `
		SELECT id, year, month, title FROM requisition_calls WHERE id = $1`, callID).
		Scan(&cf.CallID, &cf.Year, &cf.Month, &cf.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return CallFulfilment{}, ErrNotFound
	}
	if err != nil {
		return CallFulfilment{}, fmt.Errorf("get call: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(i.requested_qty), 0), COALESCE(SUM(i.approved_qty), 0)
		FROM requisition_items i
		JOIN requisitions r ON r.id = i.requisition_id
		WHERE r.call_id = $1`, callID).
		Scan(&cf.TotalRequested, &cf.TotalApproved)
	if err != nil {
		return CallFulfilment{}, fmt.Errorf("call totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM requisitions
		WHERE call_id = $1
		GROUP BY status
		ORDER BY status`, callID)
	if err != nil {
		return CallFulfilment{}, fmt.Errorf("call status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return CallFulfilment{}, fmt.Errorf("scan status count: %w", err)
		}
		cf.ByStatus = append(cf.ByStatus, sc)
	}
	return cf, rows.Err()
}

func (r *Repository) FleetBuckets(ctx context.Context) ([]FleetBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, status, COUNT(*)
		FROM vehicles
		GROUP BY area_id, status
		ORDER BY area_id, status`)
	if err != nil {
		return nil, fmt.Errorf("fleet buckets: %w", err)
	}
	defer rows.Close()

	var out []FleetBucket
	for rows.Next() {
		var fb FleetBucket
		if err := rows.Scan(&fb.AreaID, &fb.Status, &fb.Count); err != nil {
			return nil, fmt.Errorf("scan fleet bucket: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
