package products

import (
	"context"
	"log/slog"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

// Repository abstracts product persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int64, error)
	Create(ctx context.Context, in Input) (Product, error)
	Update(ctx context.Context, id int64, in Input) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int64, error) {
	filters.Normalize()
	return s.repo.List(ctx, filters)
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := validateInput(&in); err != nil {
		return Product{}, err
	}
	product, err := s.repo.Create(ctx, in)
	if err != nil {
		return Product{}, err
	}
	s.logger.Info("product created", slog.Int64("product_id", product.ID), slog.String("code", product.Code))
	return product, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrInvalidID
	}
	if err := validateInput(&in); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete deactivates a product rather than removing it so historic
// documents keep resolving.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deactivated", slog.Int64("product_id", id))
	return nil
}
