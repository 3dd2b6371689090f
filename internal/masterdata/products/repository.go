package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, code, name, unit_id, category_id, min_stock, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.UnitID, &p.CategoryID, &p.MinStock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(code ILIKE $"+n+" OR name ILIKE $"+n+")")
	}
	if filters.UnitID != nil {
		args = append(args, *filters.UnitID)
		where = append(where, "unit_id = $"+strconv.Itoa(len(args)))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, in Input) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (code, name, unit_id, category_id, min_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+productColumns,
		in.Code, in.Name, in.UnitID, in.CategoryID, in.MinStock, in.IsActive)
	p, err := scanProduct(row)
	if isUniqueViolation(err) {
		return Product{}, shared.ErrDuplicate
	}
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, in Input) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET code = $2, name = $3, unit_id = $4, category_id = $5, min_stock = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, in.Code, in.Name, in.UnitID, in.CategoryID, in.MinStock, in.IsActive)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Product{}, shared.ErrDuplicate
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	col := "id"
	switch sortBy {
	case "code":
		col = "code"
	case "name":
		col = "name"
	case "min_stock":
		col = "min_stock"
	case "created_at":
		col = "created_at"
	}
	if sortDir == shared.SortDesc {
		return col + " DESC"
	}
	return col + " ASC"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
