package fleet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// RepositoryPort abstracts vehicle persistence.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Vehicle, error)
	List(ctx context.Context, filter Filter) ([]Vehicle, int, error)
	Insert(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	Update(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CreateInput carries the fields accepted when registering a vehicle.
type CreateInput struct {
	ActorID   int64
	Plate     string
	Brand     string
	Model     string
	Year      int
	AreaID    int64
	SubareaID int64
	Status    VehicleStatus
	Notes     string
}

// UpdateInput mirrors CreateInput for an existing vehicle.
type UpdateInput struct {
	ActorID   int64
	Plate     string
	Brand     string
	Model     string
	Year      int
	AreaID    int64
	SubareaID int64
	Status    VehicleStatus
	Notes     string
}

type Service struct {
	repo  RepositoryPort
	audit AuditPort
	now   func() time.Time
}

func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Get(ctx context.Context, id int64) (Vehicle, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Vehicle, shared.Pagination, error) {
	p := shared.NewPagination(filter.Page, filter.PerPage, 0)
	filter.Page = p.Page
	filter.PerPage = p.PerPage
	vehicles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return vehicles, shared.NewPagination(p.Page, p.PerPage, total), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Vehicle, error) {
	vehicle := Vehicle{
		Plate:     normalizePlate(input.Plate),
		Brand:     strings.TrimSpace(input.Brand),
		Model:     strings.TrimSpace(input.Model),
		Year:      input.Year,
		AreaID:    input.AreaID,
		SubareaID: input.SubareaID,
		Status:    input.Status,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if vehicle.Status == "" {
		vehicle.Status = StatusActive
	}
	if err := s.validate(vehicle); err != nil {
		return Vehicle{}, err
	}
	created, err := s.repo.Insert(ctx, vehicle)
	if err != nil {
		return Vehicle{}, err
	}
	s.recordAudit(ctx, input.ActorID, "VEHICLE_CREATE", created.ID, map[string]any{"plate": created.Plate})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Vehicle, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	current.Plate = normalizePlate(input.Plate)
	current.Brand = strings.TrimSpace(input.Brand)
	current.Model = strings.TrimSpace(input.Model)
	current.Year = input.Year
	current.AreaID = input.AreaID
	current.SubareaID = input.SubareaID
	current.Status = input.Status
	current.Notes = strings.TrimSpace(input.Notes)
	if err := s.validate(current); err != nil {
		return Vehicle{}, err
	}
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return Vehicle{}, err
	}
	s.recordAudit(ctx, input.ActorID, "VEHICLE_UPDATE", updated.ID, map[string]any{"plate": updated.Plate, "status": string(updated.Status)})
	return updated, nil
}

// Assign moves a vehicle to a different area and subarea without touching
// the rest of its record.
func (s *Service) Assign(ctx context.Context, id, actorID, areaID, subareaID int64) (Vehicle, error) {
	if areaID <= 0 || subareaID <= 0 {
		return Vehicle{}, fmt.Errorf("%w: area and subarea are required", ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	current.AreaID = areaID
	current.SubareaID = subareaID
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return Vehicle{}, err
	}
	s.recordAudit(ctx, actorID, "VEHICLE_ASSIGN", updated.ID, map[string]any{"area_id": areaID, "subarea_id": subareaID})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "VEHICLE_DELETE", id, nil)
	return nil
}

func (s *Service) validate(v Vehicle) error {
	if v.Plate == "" {
		return fmt.Errorf("%w: plate is required", ErrValidation)
	}
	if v.Brand == "" {
		return fmt.Errorf("%w: brand is required", ErrValidation)
	}
	if v.Year < 1950 || v.Year > s.now().Year()+1 {
		return fmt.Errorf("%w: year out of range", ErrValidation)
	}
	if v.AreaID <= 0 || v.SubareaID <= 0 {
		return fmt.Errorf("%w: area and subarea are required", ErrValidation)
	}
	if !v.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, v.Status)
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, vehicleID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "vehicle", EntityID: fmt.Sprintf("%d", vehicleID), Meta: meta})
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}
