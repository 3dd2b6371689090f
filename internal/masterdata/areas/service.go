package areas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

// Repository abstracts area and subarea persistence.
type Repository interface {
	GetArea(ctx context.Context, id int64) (Area, error)
	ListAreas(ctx context.Context, filters shared.ListFilters) ([]Area, int64, error)
	CreateArea(ctx context.Context, in AreaInput) (Area, error)
	UpdateArea(ctx context.Context, id int64, in AreaInput) (Area, error)
	DeleteArea(ctx context.Context, id int64) error

	GetSubarea(ctx context.Context, id int64) (Subarea, error)
	ListSubareas(ctx context.Context, filters shared.ListFilters) ([]Subarea, int64, error)
	CreateSubarea(ctx context.Context, in SubareaInput) (Subarea, error)
	UpdateSubarea(ctx context.Context, id int64, in SubareaInput) (Subarea, error)
	DeleteSubarea(ctx context.Context, id int64) error

	CountSubareas(ctx context.Context, areaID int64) (int64, error)
	CountAreaRequisitions(ctx context.Context, areaID int64) (int64, error)
	CountSubareaRequisitions(ctx context.Context, subareaID int64) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetArea(ctx context.Context, id int64) (Area, error) {
	if id <= 0 {
		return Area{}, shared.ErrInvalidID
	}
	return s.repo.GetArea(ctx, id)
}

func (s *Service) ListAreas(ctx context.Context, filters shared.ListFilters) ([]Area, int64, error) {
	filters.Normalize()
	return s.repo.ListAreas(ctx, filters)
}

func (s *Service) CreateArea(ctx context.Context, in AreaInput) (Area, error) {
	if err := validateAreaInput(&in); err != nil {
		return Area{}, err
	}
	area, err := s.repo.CreateArea(ctx, in)
	if err != nil {
		return Area{}, err
	}
	s.logger.Info("area created", slog.Int64("area_id", area.ID))
	return area, nil
}

func (s *Service) UpdateArea(ctx context.Context, id int64, in AreaInput) (Area, error) {
	if id <= 0 {
		return Area{}, shared.ErrInvalidID
	}
	if err := validateAreaInput(&in); err != nil {
		return Area{}, err
	}
	return s.repo.UpdateArea(ctx, id, in)
}

// DeleteArea refuses to remove an area that still has subareas or
// requisitions pointing at it.
func (s *Service) DeleteArea(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	subareas, err := s.repo.CountSubareas(ctx, id)
	if err != nil {
		return err
	}
	if subareas > 0 {
		return fmt.Errorf("%w: area has %d subareas", shared.ErrInUse, subareas)
	}
	requisitions, err := s.repo.CountAreaRequisitions(ctx, id)
	if err != nil {
		return err
	}
	if requisitions > 0 {
		return fmt.Errorf("%w: area has %d requisitions", shared.ErrInUse, requisitions)
	}
	if err := s.repo.DeleteArea(ctx, id); err != nil {
		return err
	}
	s.logger.Info("area deleted", slog.Int64("area_id", id))
	return nil
}

func (s *Service) GetSubarea(ctx context.Context, id int64) (Subarea, error) {
	if id <= 0 {
		return Subarea{}, shared.ErrInvalidID
	}
	return s.repo.GetSubarea(ctx, id)
}

func (s *Service) ListSubareas(ctx context.Context, filters shared.ListFilters) ([]Subarea, int64, error) {
	filters.Normalize()
	return s.repo.ListSubareas(ctx, filters)
}

func (s *Service) CreateSubarea(ctx context.Context, in SubareaInput) (Subarea, error) {
	if err := validateSubareaInput(&in); err != nil {
		return Subarea{}, err
	}
	if _, err := s.repo.GetArea(ctx, in.AreaID); err != nil {
		return Subarea{}, err
	}
	subarea, err := s.repo.CreateSubarea(ctx, in)
	if err != nil {
		return Subarea{}, err
	}
	s.logger.Info("subarea created", slog.Int64("subarea_id", subarea.ID), slog.Int64("area_id", subarea.AreaID))
	return subarea, nil
}

func (s *Service) UpdateSubarea(ctx context.Context, id int64, in SubareaInput) (Subarea, error) {
	if id <= 0 {
		return Subarea{}, shared.ErrInvalidID
	}
	if err := validateSubareaInput(&in); err != nil {
		return Subarea{}, err
	}
	if _, err := s.repo.GetArea(ctx, in.AreaID); err != nil {
		return Subarea{}, err
	}
	return s.repo.UpdateSubarea(ctx, id, in)
}

func (s *Service) DeleteSubarea(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	requisitions, err := s.repo.CountSubareaRequisitions(ctx, id)
	if err != nil {
		return err
	}
	if requisitions > 0 {
		return fmt.Errorf("%w: subarea has %d requisitions", shared.ErrInUse, requisitions)
	}
	if err := s.repo.DeleteSubarea(ctx, id); err != nil {
		return err
	}
	s.logger.Info("subarea deleted", slog.Int64("subarea_id", id))
	return nil
}
