package units

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

const unitColumns = `id, code, name, created_at, updated_at`

func scanUnit(row pgx.Row) (Unit, error) {
	var u Unit
	err := row.Scan(&u.ID, &u.Code, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Unit, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1`, id)
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, shared.ErrNotFound
	}
	if err != nil {
		return Unit{}, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters shared.ListFilters) ([]Unit, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(code ILIKE $"+n+" OR name ILIKE $"+n+")")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM units WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count units: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + unitColumns + ` FROM units WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, in Input) (Unit, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO units (code, name, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING `+unitColumns, in.Code, in.Name)
	u, err := scanUnit(row)
	if isUniqueViolation(err) {
		return Unit{}, shared.ErrDuplicate
	}
	if err != nil {
		return Unit{}, fmt.Errorf("create unit: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, in Input) (Unit, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE units SET code = $2, name = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+unitColumns, id, in.Code, in.Name)
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Unit{}, shared.ErrDuplicate
	}
	if err != nil {
		return Unit{}, fmt.Errorf("update unit: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
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
