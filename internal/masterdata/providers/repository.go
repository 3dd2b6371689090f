package providers

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

const providerColumns = `id, code, name, tax_id, email, phone, is_active, created_at, updated_at`

func scanProvider(row pgx.Row) (Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.TaxID, &p.Email, &p.Phone, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Provider, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
	p, err := scanProvider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Provider{}, shared.ErrNotFound
	}
	if err != nil {
		return Provider{}, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filters shared.ListFilters) ([]Provider, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(code ILIKE $"+n+" OR name ILIKE $"+n+" OR tax_id ILIKE $"+n+")")
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count providers: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + providerColumns + ` FROM providers WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var out []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan provider: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, in Input) (Provider, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO providers (code, name, tax_id, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+providerColumns,
		in.Code, in.Name, in.TaxID, in.Email, in.Phone, in.IsActive)
	p, err := scanProvider(row)
	if isUniqueViolation(err) {
		return Provider{}, shared.ErrDuplicate
	}
	if err != nil {
		return Provider{}, fmt.Errorf("create provider: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, in Input) (Provider, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE providers
		SET code = $2, name = $3, tax_id = $4, email = $5, phone = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+providerColumns,
		id, in.Code, in.Name, in.TaxID, in.Email, in.Phone, in.IsActive)
	p, err := scanProvider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Provider{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Provider{}, shared.ErrDuplicate
	}
	if err != nil {
		return Provider{}, fmt.Errorf("update provider: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE providers SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate provider: %w", err)
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
