package units

import (
	"context"
	"log/slog"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

// Repository abstracts unit persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (Unit, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Unit, int64, error)
	Create(ctx context.Context, in Input) (Unit, error)
	Update(ctx context.Context, id int64, in Input) (Unit, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if id <= 0 {
		return Unit{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Unit, int64, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in Input) (Unit, error) {
	if err := validateInput(&in); err != nil {
		return Unit{}, err
	}
	unit, err := s.repo.Create(ctx, in)
	if err != nil {
		return Unit{}, err
	}
	s.logger.Info("unit created", slog.Int64("unit_id", unit.ID), slog.String("code", unit.Code))
	return unit, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Unit, error) {
	if id <= 0 {
		return Unit{}, shared.ErrInvalidID
	}
	if err := validateInput(&in); err != nil {
		return Unit{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("unit deleted", slog.Int64("unit_id", id))
	return nil
}
