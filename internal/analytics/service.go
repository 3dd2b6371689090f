package analytics

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

const topProductsLimit = 10

// RepositoryPort exposes the aggregate queries the reports need.
type RepositoryPort interface {
	WarehouseStocks(ctx context.Context) ([]WarehouseStock, error)
	TopProductsByValue(ctx context.Context, limit int) ([]ProductValuation, error)
	CallFulfilment(ctx context.Context, callID int64) (CallFulfilment, error)
	FleetBuckets(ctx context.Context) ([]FleetBucket, error)
}

// Service coordinates report execution with the cache layer. Concurrent
// requests for the same key share a single load through singleflight.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	flight singleflight.Group
	now    func() time.Time
}

func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) StockSummary(ctx context.Context) (StockSummary, error) {
	var out StockSummary
	err := s.fetch(ctx, keyStockSummary(), &out, func(ctx context.Context) (interface{}, error) {
		warehouses, err := s.repo.WarehouseStocks(ctx)
		if err != nil {
			return nil, err
		}
		top, err := s.repo.TopProductsByValue(ctx, topProductsLimit)
		if err != nil {
			return nil, err
		}
		return StockSummary{Warehouses: warehouses, TopProducts: top, GeneratedAt: s.now()}, nil
	})
	return out, err
}

func (s *Service) CallFulfilment(ctx context.Context, callID int64) (CallFulfilment, error) {
	var out CallFulfilment
	err := s.fetch(ctx, keyCallFulfilment(callID), &out, func(ctx context.Context) (interface{}, error) {
		cf, err := s.repo.CallFulfilment(ctx, callID)
		if err != nil {
			return nil, err
		}
		cf.GeneratedAt = s.now()
		return cf, nil
	})
	return out, err
}

func (s *Service) FleetComposition(ctx context.Context) (FleetComposition, error) {
	var out FleetComposition
	err := s.fetch(ctx, keyFleetComposition(), &out, func(ctx context.Context) (interface{}, error) {
		buckets, err := s.repo.FleetBuckets(ctx)
		if err != nil {
			return nil, err
		}
		var total int64
		for _, b := range buckets {
			total += b.Count
		}
		return FleetComposition{Buckets: buckets, Total: total, GeneratedAt: s.now()}, nil
	})
	return out, err
}

// Invalidate bumps the cache version so subsequent reads recompute.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) fetch(ctx context.Context, keyParts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyParts...)
	if err != nil {
		return err
	}
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.(json.RawMessage), dest)
}
