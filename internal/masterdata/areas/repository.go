package areas

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const areaColumns = `id, name, is_active, created_at, updated_at`
const subareaColumns = `id, area_id, name, is_active, created_at, updated_at`

func scanArea(row pgx.Row) (Area, error) {
	var a Area
	err := row.Scan(&a.ID, &a.Name, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func scanSubarea(row pgx.Row) (Subarea, error) {
	var s Subarea
	err := row.Scan(&s.ID, &s.AreaID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresRepository) GetArea(ctx context.Context, id int64) (Area, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+areaColumns+` FROM areas WHERE id = $1`, id)
	a, err := scanArea(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Area{}, shared.ErrNotFound
	}
	if err != nil {
		return Area{}, fmt.Errorf("get area: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListAreas(ctx context.Context, filters shared.ListFilters) ([]Area, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where = append(where, "name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM areas WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count areas: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + areaColumns + ` FROM areas WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan area: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) CreateArea(ctx context.Context, in AreaInput) (Area, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO areas (name, is_active, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING `+areaColumns, in.Name, in.IsActive)
	a, err := scanArea(row)
	if err != nil {
		return Area{}, fmt.Errorf("create area: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) UpdateArea(ctx context.Context, id int64, in AreaInput) (Area, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE areas SET name = $2, is_active = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+areaColumns, id, in.Name, in.IsActive)
	a, err := scanArea(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Area{}, shared.ErrNotFound
	}
	if err != nil {
		return Area{}, fmt.Errorf("update area: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) DeleteArea(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetSubarea(ctx context.Context, id int64) (Subarea, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subareaColumns+` FROM subareas WHERE id = $1`, id)
	s, err := scanSubarea(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subarea{}, shared.ErrNotFound
	}
	if err != nil {
		return Subarea{}, fmt.Errorf("get subarea: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListSubareas(ctx context.Context, filters shared.ListFilters) ([]Subarea, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where = append(where, "name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filters.AreaID != nil {
		args = append(args, *filters.AreaID)
		where = append(where, "area_id = $"+strconv.Itoa(len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, "is_active = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subareas WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subareas: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset())
	query := `SELECT ` + subareaColumns + ` FROM subareas WHERE ` + cond +
		` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir) +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list subareas: %w", err)
	}
	defer rows.Close()

	var out []Subarea
	for rows.Next() {
		s, err := scanSubarea(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan subarea: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepository) CreateSubarea(ctx context.Context, in SubareaInput) (Subarea, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO subareas (area_id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING `+subareaColumns, in.AreaID, in.Name, in.IsActive)
	s, err := scanSubarea(row)
	if err != nil {
		return Subarea{}, fmt.Errorf("create subarea: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) UpdateSubarea(ctx context.Context, id int64, in SubareaInput) (Subarea, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE subareas SET area_id = $2, name = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+subareaColumns, id, in.AreaID, in.Name, in.IsActive)
	s, err := scanSubarea(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subarea{}, shared.ErrNotFound
	}
	if err != nil {
		return Subarea{}, fmt.Errorf("update subarea: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) DeleteSubarea(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subareas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subarea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CountSubareas(ctx context.Context, areaID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subareas WHERE area_id = $1`, areaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subareas: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountAreaRequisitions(ctx context.Context, areaID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requisitions WHERE area_id = $1`, areaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count area requisitions: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountSubareaRequisitions(ctx context.Context, subareaID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requisitions WHERE subarea_id = $1`, subareaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subarea requisitions: %w", err)
	}
	return n, nil
}

func sortOrder(sortBy, sortDir string) string {
	col := "id"
	switch sortBy {
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
