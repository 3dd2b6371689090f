package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stockCalls int
	fleetCalls int
	callCalls  int
}

func (s *stubRepo) WarehouseStocks(context.Context) ([]WarehouseStock, error) {
	s.stockCalls++
	return []WarehouseStock{{WarehouseID: 1, Products: 2, TotalQty: 30, TotalValue: 4500}}, nil
}

func (s *stubRepo) TopProductsByValue(context.Context, int) ([]ProductValuation, error) {
	return []ProductValuation{{ProductID: 9, Code: "PAP-001", Name: "Bond paper", TotalQty: 20, TotalValue: 3000}}, nil
}

func (s *stubRepo) CallFulfilment(_ context.Context, callID int64) (CallFulfilment, error) {
	s.callCalls++
	if callID != 42 {
		return CallFulfilment{}, ErrNotFound
	}
	return CallFulfilment{
		CallID:         42,
		Year:           2026,
		Month:          3,
		Title:          "March call",
		TotalRequested: 100,
		TotalApproved:  80,
		ByStatus:       []StatusCount{{Status: "APPROVED", Count: 3}, {Status: "SENT", Count: 1}},
	}, nil
}

func (s *stubRepo) FleetBuckets(context.Context) ([]FleetBucket, error) {
	s.fleetCalls++
	return []FleetBucket{
		{AreaID: 1, Status: "ACTIVE", Count: 4},
		{AreaID: 1, Status: "MAINTENANCE", Count: 1},
		{AreaID: 2, Status: "ACTIVE", Count: 2},
	}, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := &stubRepo{}
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func TestStockSummaryIsCachedUntilInvalidated(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Len(t, first.Warehouses, 1)
	require.Equal(t, 4500.0, first.Warehouses[0].TotalValue)
	require.Equal(t, 1, repo.stockCalls)

	second, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Warehouses, second.Warehouses)
	require.Equal(t, 1, repo.stockCalls)

	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.stockCalls)
}

func TestCallFulfilmentAggregates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.CallFulfilment(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, 100.0, report.TotalRequested)
	require.Equal(t, 80.0, report.TotalApproved)
	require.Len(t, report.ByStatus, 2)
}

func TestCallFulfilmentUnknownCall(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CallFulfilment(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFleetCompositionTotals(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	report, err := svc.FleetComposition(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), report.Total)
	require.Len(t, report.Buckets, 3)

	_, err = svc.FleetComposition(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.fleetCalls)
}

func TestWorksWithoutRedis(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, NewCache(nil, time.Minute))
	ctx := context.Background()

	_, err := svc.StockSummary(ctx)
	require.NoError(t, err)
	_, err = svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.stockCalls)
}
