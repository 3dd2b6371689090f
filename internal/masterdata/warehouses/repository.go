package warehouses

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

const warehouseColumns = `id, code, name, is_active, created_at, updated_at`

func scanWarehouse(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.Code, &w.Name, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Warehouse, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
	w, err := scanWarehouse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, shared.ErrNotFound
	}
	if err != nil {
		return Warehouse{}, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(code ILIKE $"+n+" OR name ILIKE $"+n+")")
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count warehouses: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, in Input) (Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO warehouses (code, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING `+warehouseColumns, in.Code, in.Name, in.IsActive)
	w, err := scanWarehouse(row)
	if isUniqueViolation(err) {
		return Warehouse{}, shared.ErrDuplicate
	}
	if err != nil {
		return Warehouse{}, fmt.Errorf("create warehouse: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, in Input) (Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE warehouses SET code = $2, name = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+warehouseColumns, id, in.Code, in.Name, in.IsActive)
	w, err := scanWarehouse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Warehouse{}, shared.ErrDuplicate
	}
	if err != nil {
		return Warehouse{}, fmt.Errorf("update warehouse: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE warehouses SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate warehouse: %w", err)
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
