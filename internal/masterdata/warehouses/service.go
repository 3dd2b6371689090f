package warehouses

import (
	"context"
	"log/slog"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

// Repository abstracts warehouse persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (Warehouse, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int64, error)
	Create(ctx context.Context, in Input) (Warehouse, error)
	Update(ctx context.Context, id int64, in Input) (Warehouse, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int64, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in Input) (Warehouse, error) {
	if err := validateInput(&in); err != nil {
		return Warehouse{}, err
	}
	warehouse, err := s.repo.Create(ctx, in)
	if err != nil {
		return Warehouse{}, err
	}
	s.logger.Info("warehouse created", slog.Int64("warehouse_id", warehouse.ID), slog.String("code", warehouse.Code))
	return warehouse, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, shared.ErrInvalidID
	}
	if err := validateInput(&in); err != nil {
		return Warehouse{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete deactivates a warehouse so existing documents keep resolving.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("warehouse deactivated", slog.Int64("warehouse_id", id))
	return nil
}
