package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/db"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	InsertDocument(ctx context.Context, doc Document) (int64, error)
	InsertDocumentLines(ctx context.Context, docID int64, lines []DocumentLine) error
	GetBalanceForUpdate(ctx context.Context, warehouseID, productID int64) (Balance, error)
	UpsertBalance(ctx context.Context, balance Balance) error
	InsertCardEntry(ctx context.Context, card StockCardEntry, warehouseID, productID, docID int64) error
}

type txRepository struct {
	tx pgx.Tx
}

// ErrBalanceNotFound indicates a missing balance row.
var ErrBalanceNotFound = errors.New("inventory balance not found")

// WithTx executes the callback inside a repeatable-read transaction. When
// the context already carries a caller's transaction, such as a requisition
// approval posting its exit, the callback joins it instead of opening a
// second one.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("inventory repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// GetStockCard lists card entries for one warehouse/product.
func (r *Repository) GetStockCard(ctx context.Context, filter StockCardFilter) ([]StockCardEntry, error) {
	if r == nil {
		return nil, errors.New("inventory repository not initialised")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT doc_code, doc_type, posted_at, qty_in, qty_out, balance_qty, unit_cost, balance_cost, note
FROM inventory_cards
WHERE warehouse_id=$1 AND product_id=$2 AND posted_at BETWEEN COALESCE($3, '-infinity') AND COALESCE($4, 'infinity')
ORDER BY posted_at ASC, id ASC
LIMIT $5`, filter.WarehouseID, filter.ProductID, nullTime(filter.From), nullTime(filter.To), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cards := []StockCardEntry{}
	for rows.Next() {
		var entry StockCardEntry
		if err := rows.Scan(&entry.DocCode, &entry.DocType, &entry.PostedAt, &entry.QtyIn, &entry.QtyOut, &entry.BalanceQty, &entry.UnitCost, &entry.BalanceCost, &entry.Note); err != nil {
			return nil, err
		}
		cards = append(cards, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetBalances lists current balances, optionally scoped to one warehouse or product.
func (r *Repository) GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error) {
	if r == nil {
		return nil, errors.New("inventory repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT warehouse_id, product_id, qty, avg_cost, updated_at
FROM inventory_balances
WHERE ($1 = 0 OR warehouse_id = $1) AND ($2 = 0 OR product_id = $2)
ORDER BY warehouse_id, product_id`, filter.WarehouseID, filter.ProductID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := []Balance{}
	for rows.Next() {
		var bal Balance
		if err := rows.Scan(&bal.WarehouseID, &bal.ProductID, &bal.Qty, &bal.AvgCost, &bal.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, bal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetDocument returns a document header with its lines.
func (r *Repository) GetDocument(ctx context.Context, id int64) (Document, []DocumentLine, error) {
	var doc Document
	err := r.pool.QueryRow(ctx, `SELECT id, code, doc_type, warehouse_id, COALESCE(provider_id,0), ref_module, COALESCE(ref_id::text,''), note, posted_at, COALESCE(created_by,0), created_at
FROM inventory_docs WHERE id=$1`, id).
		Scan(&doc.ID, &doc.Code, &doc.Type, &doc.WarehouseID, &doc.ProviderID, &doc.RefModule, &doc.RefID, &doc.Note, &doc.PostedAt, &doc.CreatedBy, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, nil, ErrNotFound
		}
		return Document{}, nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, doc_id, product_id, qty, unit_cost FROM inventory_doc_lines WHERE doc_id=$1 ORDER BY id`, id)
	if err != nil {
		return Document{}, nil, err
	}
	defer rows.Close()
	var lines []DocumentLine
	for rows.Next() {
		var line DocumentLine
		if err := rows.Scan(&line.ID, &line.DocumentID, &line.ProductID, &line.Qty, &line.UnitCost); err != nil {
			return Document{}, nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return Document{}, nil, err
	}
	return doc, lines, nil
}

func (r *txRepository) InsertDocument(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO inventory_docs (code, doc_type, warehouse_id, provider_id, ref_module, ref_id, note, posted_at, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW()) RETURNING id`, doc.Code, string(doc.Type), doc.WarehouseID, nullInt(doc.ProviderID), doc.RefModule, nullUUID(doc.RefID), doc.Note, doc.PostedAt, nullInt(doc.CreatedBy)).Scan(&id)
	return id, err
}

func (r *txRepository) InsertDocumentLines(ctx context.Context, docID int64, lines []DocumentLine) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO inventory_doc_lines (doc_id, product_id, qty, unit_cost)
VALUES ($1,$2,$3,$4)`, docID, line.ProductID, line.Qty, line.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetBalanceForUpdate(ctx context.Context, warehouseID, productID int64) (Balance, error) {
	var bal Balance
	err := r.tx.QueryRow(ctx, `SELECT warehouse_id, product_id, qty, avg_cost, updated_at FROM inventory_balances WHERE warehouse_id=$1 AND product_id=$2 FOR UPDATE`, warehouseID, productID).
		Scan(&bal.WarehouseID, &bal.ProductID, &bal.Qty, &bal.AvgCost, &bal.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{WarehouseID: warehouseID, ProductID: productID}, ErrBalanceNotFound
		}
		return Balance{}, err
	}
	return bal, nil
}

func (r *txRepository) UpsertBalance(ctx context.Context, balance Balance) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO inventory_balances (warehouse_id, product_id, qty, avg_cost, updated_at)
VALUES ($1,$2,$3,$4,NOW())
ON CONFLICT (warehouse_id, product_id) DO UPDATE SET qty=EXCLUDED.qty, avg_cost=EXCLUDED.avg_cost, updated_at=NOW()`, balance.WarehouseID, balance.ProductID, balance.Qty, balance.AvgCost)
	return err
}

func (r *txRepository) InsertCardEntry(ctx context.Context, card StockCardEntry, warehouseID, productID, docID int64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO inventory_cards (warehouse_id, product_id, doc_id, doc_code, doc_type, qty_in, qty_out, balance_qty, unit_cost, balance_cost, posted_at, note)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`, warehouseID, productID, docID, card.DocCode, string(card.DocType), card.QtyIn, card.QtyOut, card.BalanceQty, card.UnitCost, card.BalanceCost, card.PostedAt, card.Note)
	return err
}

func nullInt(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullUUID(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
