package providers

import (
	"context"
	"log/slog"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

// Repository abstracts provider persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (Provider, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Provider, int64, error)
	Create(ctx context.Context, in Input) (Provider, error)
	Update(ctx context.Context, id int64, in Input) (Provider, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int64) (Provider, error) {
	if id <= 0 {
		return Provider{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Provider, int64, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in Input) (Provider, error) {
	if err := validateInput(&in); err != nil {
		return Provider{}, err
	}
	provider, err := s.repo.Create(ctx, in)
	if err != nil {
		return Provider{}, err
	}
	s.logger.Info("provider created", slog.Int64("provider_id", provider.ID), slog.String("code", provider.Code))
	return provider, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Provider, error) {
	if id <= 0 {
		return Provider{}, shared.ErrInvalidID
	}
	if err := validateInput(&in); err != nil {
		return Provider{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete deactivates a provider so past inventory entries keep resolving.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("provider deactivated", slog.Int64("provider_id", id))
	return nil
}
