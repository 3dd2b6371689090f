package areas

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata/shared"
)

type memoryRepo struct {
	areaSeq    int64
	subareaSeq int64
	areas      map[int64]Area
	subareas   map[int64]Subarea

	// requisition counts per area and subarea id
	areaReqs    map[int64]int64
	subareaReqs map[int64]int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		areas:       map[int64]Area{},
		subareas:    map[int64]Subarea{},
		areaReqs:    map[int64]int64{},
		subareaReqs: map[int64]int64{},
	}
}

func (m *memoryRepo) GetArea(_ context.Context, id int64) (Area, error) {
	a, ok := m.areas[id]
	if !ok {
		return Area{}, shared.ErrNotFound
	}
	return a, nil
}

func (m *memoryRepo) ListAreas(_ context.Context, _ shared.ListFilters) ([]Area, int64, error) {
	var out []Area
	for _, a := range m.areas {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) CreateArea(_ context.Context, in AreaInput) (Area, error) {
	m.areaSeq++
	a := Area{ID: m.areaSeq, Name: in.Name, IsActive: in.IsActive}
	m.areas[a.ID] = a
	return a, nil
}

func (m *memoryRepo) UpdateArea(_ context.Context, id int64, in AreaInput) (Area, error) {
	a, ok := m.areas[id]
	if !ok {
		return Area{}, shared.ErrNotFound
	}
	a.Name = in.Name
	a.IsActive = in.IsActive
	m.areas[id] = a
	return a, nil
}

func (m *memoryRepo) DeleteArea(_ context.Context, id int64) error {
	if _, ok := m.areas[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.areas, id)
	return nil
}

func (m *memoryRepo) GetSubarea(_ context.Context, id int64) (Subarea, error) {
	s, ok := m.subareas[id]
	if !ok {
		return Subarea{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) ListSubareas(_ context.Context, filters shared.ListFilters) ([]Subarea, int64, error) {
	var out []Subarea
	for _, s := range m.subareas {
		if filters.AreaID != nil && s.AreaID != *filters.AreaID {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) CreateSubarea(_ context.Context, in SubareaInput) (Subarea, error) {
	m.subareaSeq++
	s := Subarea{ID: m.subareaSeq, AreaID: in.AreaID, Name: in.Name, IsActive: in.IsActive}
	m.subareas[s.ID] = s
	return s, nil
}

func (m *memoryRepo) UpdateSubarea(_ context.Context, id int64, in SubareaInput) (Subarea, error) {
	s, ok := m.subareas[id]
	if !ok {
		return Subarea{}, shared.ErrNotFound
	}
	s.AreaID = in.AreaID
	s.Name = in.Name
	s.IsActive = in.IsActive
	m.subareas[id] = s
	return s, nil
}

func (m *memoryRepo) DeleteSubarea(_ context.Context, id int64) error {
	if _, ok := m.subareas[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.subareas, id)
	return nil
}

func (m *memoryRepo) CountSubareas(_ context.Context, areaID int64) (int64, error) {
	var n int64
	for _, s := range m.subareas {
		if s.AreaID == areaID {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) CountAreaRequisitions(_ context.Context, areaID int64) (int64, error) {
	return m.areaReqs[areaID], nil
}

func (m *memoryRepo) CountSubareaRequisitions(_ context.Context, subareaID int64) (int64, error) {
	return m.subareaReqs[subareaID], nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestDeleteAreaRejectedWhileSubareasExist(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, AreaInput{Name: "Administration", IsActive: true})
	require.NoError(t, err)
	_, err = svc.CreateSubarea(ctx, SubareaInput{AreaID: area.ID, Name: "Accounting", IsActive: true})
	require.NoError(t, err)

	err = svc.DeleteArea(ctx, area.ID)
	require.ErrorIs(t, err, shared.ErrInUse)
}

func TestDeleteAreaRejectedWhileRequisitionsReferenceIt(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, AreaInput{Name: "Operations", IsActive: true})
	require.NoError(t, err)
	repo.areaReqs[area.ID] = 3

	err = svc.DeleteArea(ctx, area.ID)
	require.ErrorIs(t, err, shared.ErrInUse)
}

func TestDeleteAreaSucceedsWhenUnreferenced(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, AreaInput{Name: "Temporary", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteArea(ctx, area.ID))
	_, ok := repo.areas[area.ID]
	require.False(t, ok)
}

func TestDeleteSubareaRejectedWhileRequisitionsReferenceIt(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, AreaInput{Name: "Operations", IsActive: true})
	require.NoError(t, err)
	subarea, err := svc.CreateSubarea(ctx, SubareaInput{AreaID: area.ID, Name: "Dispatch", IsActive: true})
	require.NoError(t, err)
	repo.subareaReqs[subarea.ID] = 1

	err = svc.DeleteSubarea(ctx, subarea.ID)
	require.ErrorIs(t, err, shared.ErrInUse)
}

func TestCreateSubareaRequiresExistingArea(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSubarea(context.Background(), SubareaInput{AreaID: 99, Name: "Orphan", IsActive: true})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateAreaValidatesName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateArea(context.Background(), AreaInput{Name: "   "})
	require.ErrorIs(t, err, shared.ErrRequiredField)
}
