package products

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

type memoryRepo struct {
	seq   int64
	items map[int64]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]Product{}}
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Product, error) {
	p, ok := m.items[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) List(_ context.Context, filters shared.ListFilters) ([]Product, int64, error) {
	var out []Product
	for _, p := range m.items {
		if filters.Search != "" && !strings.Contains(p.Name, filters.Search) && !strings.Contains(p.Code, filters.Search) {
			continue
		}
		if filters.IsActive != nil && p.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) Create(_ context.Context, in Input) (Product, error) {
	for _, p := range m.items {
		if p.Code == in.Code {
			return Product{}, shared.ErrDuplicate
		}
	}
	m.seq++
	p := Product{
		ID:         m.seq,
		Code:       in.Code,
		Name:       in.Name,
		UnitID:     in.UnitID,
		CategoryID: in.CategoryID,
		MinStock:   in.MinStock,
		IsActive:   in.IsActive,
	}
	m.items[p.ID] = p
	return p, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, in Input) (Product, error) {
	p, ok := m.items[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	for otherID, other := range m.items {
		if otherID != id && other.Code == in.Code {
			return Product{}, shared.ErrDuplicate
		}
	}
	p.Code = in.Code
	p.Name = in.Name
	p.UnitID = in.UnitID
	p.CategoryID = in.CategoryID
	p.MinStock = in.MinStock
	p.IsActive = in.IsActive
	m.items[id] = p
	return p, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	p, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.IsActive = false
	m.items[id] = p
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Code: "PAP-001", Name: "Bond paper", UnitID: 1, IsActive: true})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{Code: "PAP-001", Name: "Other paper", UnitID: 1, IsActive: true})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "No code", UnitID: 1})
	require.ErrorIs(t, err, shared.ErrRequiredField)

	_, err = svc.Create(ctx, Input{Code: "X", Name: "No unit"})
	require.ErrorIs(t, err, shared.ErrRequiredField)

	_, err = svc.Create(ctx, Input{Code: "X", Name: "Bad stock", UnitID: 1, MinStock: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateTrimsWhitespace(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), Input{Code: "  TON-01 ", Name: " Toner ", UnitID: 2, IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "TON-01", p.Code)
	require.Equal(t, "Toner", p.Name)
}

func TestDeleteDeactivatesInsteadOfRemoving(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{Code: "PAP-001", Name: "Bond paper", UnitID: 1, IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrInvalidID)
}
