package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	seq      int64
	vehicles map[int64]Vehicle
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{vehicles: map[int64]Vehicle{}}
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return Vehicle{}, ErrNotFound
	}
	return v, nil
}

func (m *memoryRepo) List(_ context.Context, filter Filter) ([]Vehicle, int, error) {
	var out []Vehicle
	for _, v := range m.vehicles {
		if filter.AreaID > 0 && v.AreaID != filter.AreaID {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Insert(_ context.Context, vehicle Vehicle) (Vehicle, error) {
	for _, v := range m.vehicles {
		if v.Plate == vehicle.Plate {
			return Vehicle{}, ErrDuplicatePlate
		}
	}
	m.seq++
	vehicle.ID = m.seq
	m.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (m *memoryRepo) Update(_ context.Context, vehicle Vehicle) (Vehicle, error) {
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return Vehicle{}, ErrNotFound
	}
	for id, v := range m.vehicles {
		if id != vehicle.ID && v.Plate == vehicle.Plate {
			return Vehicle{}, ErrDuplicatePlate
		}
	}
	m.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(m.vehicles, id)
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, nil), repo
}

func validInput() CreateInput {
	return CreateInput{
		ActorID:   7,
		Plate:     "ABC-1234",
		Brand:     "Nissan",
		Model:     "NP300",
		Year:      2020,
		AreaID:    1,
		SubareaID: 2,
	}
}

func TestCreateNormalizesPlateAndDefaultsStatus(t *testing.T) {
	svc, _ := newTestService()

	in := validInput()
	in.Plate = " abc-1234 "
	vehicle, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "ABC-1234", vehicle.Plate)
	require.Equal(t, StatusActive, vehicle.Status)
}

func TestCreateRejectsDuplicatePlate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Plate = "abc-1234"
	_, err = svc.Create(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicatePlate)
}

func TestCreateValidatesFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Year = 1900
	_, err := svc.Create(ctx, in)
	require.ErrorIs(t, err, ErrValidation)

	in = validInput()
	in.Status = "BROKEN"
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, ErrValidation)

	in = validInput()
	in.AreaID = 0
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssignMovesVehicleBetweenAreas(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	moved, err := svc.Assign(ctx, vehicle.ID, 7, 5, 9)
	require.NoError(t, err)
	require.Equal(t, int64(5), moved.AreaID)
	require.Equal(t, int64(9), moved.SubareaID)

	stored := repo.vehicles[vehicle.ID]
	require.Equal(t, int64(5), stored.AreaID)
}

func TestAssignRequiresBothTargets(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Assign(ctx, vehicle.ID, 7, 5, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateKeepsIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, vehicle.ID, UpdateInput{
		ActorID:   7,
		Plate:     vehicle.Plate,
		Brand:     "Nissan",
		Model:     "NP300 Frontier",
		Year:      2021,
		AreaID:    1,
		SubareaID: 2,
		Status:    StatusMaintenance,
	})
	require.NoError(t, err)
	require.Equal(t, vehicle.ID, updated.ID)
	require.Equal(t, StatusMaintenance, updated.Status)
}

func TestDeleteRemovesVehicle(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, vehicle.ID, 7))
	require.Empty(t, repo.vehicles)

	err = svc.Delete(ctx, vehicle.ID, 7)
	require.ErrorIs(t, err, ErrNotFound)
}
