package requisition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	InsertCall(ctx context.Context, call Call) (int64, error)
	UpdateCall(ctx context.Context, call Call) error
	SoftDeleteCall(ctx context.Context, id int64, at time.Time) error
	UpsertCallProduct(ctx context.Context, product CallProduct) error
	InsertRequisition(ctx context.Context, req Requisition) (int64, error)
	InsertItem(ctx context.Context, item Item) (int64, error)
	UpdateItem(ctx context.Context, item Item) error
	SetItemApprovedQty(ctx context.Context, itemID int64, qty float64) error
	GetRequisitionForUpdate(ctx context.Context, id int64) (Requisition, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkApproved(ctx context.Context, id int64, approvedBy int64, at time.Time, exitID int64) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction. The context
// passed to the callback carries the transaction, so repositories of other
// modules called from inside it share the same commit and rollback.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const callColumns = `id, year, month, title, open_at, close_at, is_active, created_by, created_at, COALESCE(deleted_at, 'epoch')`

func scanCall(row pgx.Row) (Call, error) {
	var call Call
	err := row.Scan(&call.ID, &call.Year, &call.Month, &call.Title, &call.OpenAt, &call.CloseAt, &call.IsActive, &call.CreatedBy, &call.CreatedAt, &call.DeletedAt)
	return call, err
}

// GetCall returns a call by id; soft-deleted calls are not found.
func (r *Repository) GetCall(ctx context.Context, id int64) (Call, error) {
	call, err := scanCall(r.pool.QueryRow(ctx, `SELECT `+callColumns+` FROM requisition_calls WHERE id=$1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Call{}, ErrNotFound
		}
		return Call{}, err
	}
	return call, nil
}

// GetCallProducts lists the product catalog of a call.
func (r *Repository) GetCallProducts(ctx context.Context, callID int64) ([]CallProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT call_id, product_id, is_enabled FROM requisition_call_products WHERE call_id=$1 ORDER BY product_id`, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []CallProduct
	for rows.Next() {
		var product CallProduct
		if err := rows.Scan(&product.CallID, &product.ProductID, &product.IsEnabled); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ListCalls returns calls with total count.
func (r *Repository) ListCalls(ctx context.Context, filter CallFilter, limit, offset int) ([]Call, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, "year=$"+strconv.Itoa(len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active=true")
	}
	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requisition_calls `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM requisition_calls %s ORDER BY open_at DESC LIMIT $%d OFFSET $%d`, callColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	calls := []Call{}
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, 0, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return calls, total, nil
}

const requisitionColumns = `id, call_id, area_id, subarea_id, requested_by, status, COALESCE(requested_at,'epoch'), COALESCE(approved_by,0), COALESCE(approved_at,'epoch'), COALESCE(exit_id,0), created_at`

func scanRequisition(row pgx.Row) (Requisition, error) {
	var req Requisition
	var status string
	err := row.Scan(&req.ID, &req.CallID, &req.AreaID, &req.SubareaID, &req.RequestedBy, &status, &req.RequestedAt, &req.ApprovedBy, &req.ApprovedAt, &req.ExitID, &req.CreatedAt)
	req.Status = Status(status)
	return req, err
}

// GetRequisition returns a requisition with its items.
func (r *Repository) GetRequisition(ctx context.Context, id int64) (Requisition, []Item, error) {
	req, err := scanRequisition(r.pool.QueryRow(ctx, `SELECT `+requisitionColumns+` FROM requisitions WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Requisition{}, nil, ErrNotFound
		}
		return Requisition{}, nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, requisition_id, product_id, COALESCE(unit_id,0), requested_qty, approved_qty, note
FROM requisition_items WHERE requisition_id=$1 ORDER BY id`, id)
	if err != nil {
		return Requisition{}, nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.RequisitionID, &item.ProductID, &item.UnitID, &item.RequestedQty, &item.ApprovedQty, &item.Notes); err != nil {
			return Requisition{}, nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Requisition{}, nil, err
	}
	return req, items, nil
}

// ListRequisitions returns filtered requisitions with total count.
func (r *Repository) ListRequisitions(ctx context.Context, filter Filter, limit, offset int) ([]Requisition, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	if filter.CallID > 0 {
		args = append(args, filter.CallID)
		conditions = append(conditions, "call_id=$"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "status=$"+strconv.Itoa(len(args)))
	}
	if filter.AreaID > 0 {
		args = append(args, filter.AreaID)
		conditions = append(conditions, "area_id=$"+strconv.Itoa(len(args)))
	}
	if filter.RequestedBy > 0 {
		args = append(args, filter.RequestedBy)
		conditions = append(conditions, "requested_by=$"+strconv.Itoa(len(args)))
	}
	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requisitions `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM requisitions %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, requisitionColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	reqs := []Requisition{}
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (tx *txRepo) InsertCall(ctx context.Context, call Call) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO requisition_calls (year, month, title, open_at, close_at, is_active, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW()) RETURNING id`, call.Year, call.Month, call.Title, call.OpenAt, call.CloseAt, call.IsActive, call.CreatedBy).Scan(&id)
	return id, err
}

func (tx *txRepo) UpdateCall(ctx context.Context, call Call) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisition_calls SET year=$1, month=$2, title=$3, open_at=$4, close_at=$5, is_active=$6 WHERE id=$7 AND deleted_at IS NULL`,
		call.Year, call.Month, call.Title, call.OpenAt, call.CloseAt, call.IsActive, call.ID)
	return err
}

func (tx *txRepo) SoftDeleteCall(ctx context.Context, id int64, at time.Time) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisition_calls SET deleted_at=$1, is_active=false WHERE id=$2 AND deleted_at IS NULL`, at, id)
	return err
}

func (tx *txRepo) UpsertCallProduct(ctx context.Context, product CallProduct) error {
	_, err := tx.tx.Exec(ctx, `INSERT INTO requisition_call_products (call_id, product_id, is_enabled)
VALUES ($1,$2,$3)
ON CONFLICT (call_id, product_id) DO UPDATE SET is_enabled=EXCLUDED.is_enabled`, product.CallID, product.ProductID, product.IsEnabled)
	return err
}

func (tx *txRepo) InsertRequisition(ctx context.Context, req Requisition) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO requisitions (call_id, area_id, subarea_id, requested_by, status, created_at)
VALUES ($1,$2,$3,$4,$5,NOW()) RETURNING id`, req.CallID, req.AreaID, req.SubareaID, req.RequestedBy, string(req.Status)).Scan(&id)
	return id, err
}

func (tx *txRepo) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO requisition_items (requisition_id, product_id, unit_id, requested_qty, approved_qty, note)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`, item.RequisitionID, item.ProductID, nullInt(item.UnitID), item.RequestedQty, item.ApprovedQty, item.Notes).Scan(&id)
	return id, err
}

func (tx *txRepo) UpdateItem(ctx context.Context, item Item) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisition_items SET requested_qty=$1, unit_id=$2, note=$3 WHERE id=$4 AND requisition_id=$5`,
		item.RequestedQty, nullInt(item.UnitID), item.Notes, item.ID, item.RequisitionID)
	return err
}

func (tx *txRepo) SetItemApprovedQty(ctx context.Context, itemID int64, qty float64) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisition_items SET approved_qty=$1 WHERE id=$2`, qty, itemID)
	return err
}

func (tx *txRepo) GetRequisitionForUpdate(ctx context.Context, id int64) (Requisition, error) {
	req, err := scanRequisition(tx.tx.QueryRow(ctx, `SELECT `+requisitionColumns+` FROM requisitions WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Requisition{}, ErrNotFound
		}
		return Requisition{}, err
	}
	return req, nil
}

func (tx *txRepo) MarkSent(ctx context.Context, id int64, at time.Time) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisitions SET status=$1, requested_at=$2 WHERE id=$3`, string(StatusSent), at, id)
	return err
}

func (tx *txRepo) MarkApproved(ctx context.Context, id int64, approvedBy int64, at time.Time, exitID int64) error {
	_, err := tx.tx.Exec(ctx, `UPDATE requisitions SET status=$1, approved_by=$2, approved_at=$3, exit_id=$4 WHERE id=$5`,
		string(StatusApproved), approvedBy, at, nullInt(exitID), id)
	return err
}

func nullInt(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}
