package fleet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const vehicleColumns = `id, plate, brand, model, year, area_id, subarea_id, status, notes, created_at, updated_at`

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.AreaID, &v.SubareaID, &v.Status, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *Repository) Get(ctx context.Context, id int64) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, ErrNotFound
	}
	if err != nil {
		return Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Vehicle, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.AreaID > 0 {
		args = append(args, filter.AreaID)
		where = append(where, "area_id = $"+strconv.Itoa(len(args)))
	}
	if filter.SubareaID > 0 {
		args = append(args, filter.SubareaID)
		where = append(where, "subarea_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(plate ILIKE $"+n+" OR brand ILIKE $"+n+" OR model ILIKE $"+n+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + cond +
		` ORDER BY plate ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (plate, brand, model, year, area_id, subarea_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+vehicleColumns,
		vehicle.Plate, vehicle.Brand, vehicle.Model, vehicle.Year,
		vehicle.AreaID, vehicle.SubareaID, string(vehicle.Status), vehicle.Notes)
	v, err := scanVehicle(row)
	if isUniqueViolation(err) {
		return Vehicle{}, ErrDuplicatePlate
	}
	if err != nil {
		return Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}
	return v, nil
}

func (r *Repository) Update(ctx context.Context, vehicle Vehicle) (Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE vehicles
		SET plate = $2, brand = $3, model = $4, year = $5, area_id = $6, subarea_id = $7, status = $8, notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		vehicle.ID, vehicle.Plate, vehicle.Brand, vehicle.Model, vehicle.Year,
		vehicle.AreaID, vehicle.SubareaID, string(vehicle.Status), vehicle.Notes)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vehicle{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Vehicle{}, ErrDuplicatePlate
	}
	if err != nil {
		return Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
