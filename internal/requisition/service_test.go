package requisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/inventory"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

type memoryRepo struct {
	calls        map[int64]Call
	callProducts map[int64][]CallProduct
	reqs         map[int64]Requisition
	items        map[int64][]Item
	nextID       int64

	failMarkApproved error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		calls:        make(map[int64]Call),
		callProducts: make(map[int64][]CallProduct),
		reqs:         make(map[int64]Requisition),
		items:        make(map[int64][]Item),
	}
}

type memoryTx struct {
	repo *memoryRepo
}

// WithTx mirrors the transactional contract: a callback error restores the
// pre-transaction state.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapshot := r.snapshot()
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.restore(snapshot)
		return err
	}
	return nil
}

func (r *memoryRepo) snapshot() *memoryRepo {
	s := newMemoryRepo()
	s.nextID = r.nextID
	for id, call := range r.calls {
		s.calls[id] = call
	}
	for id, products := range r.callProducts {
		s.callProducts[id] = append([]CallProduct(nil), products...)
	}
	for id, req := range r.reqs {
		s.reqs[id] = req
	}
	for id, items := range r.items {
		s.items[id] = append([]Item(nil), items...)
	}
	return s
}

func (r *memoryRepo) restore(s *memoryRepo) {
	r.calls = s.calls
	r.callProducts = s.callProducts
	r.reqs = s.reqs
	r.items = s.items
	r.nextID = s.nextID
}

func (r *memoryRepo) GetCall(ctx context.Context, id int64) (Call, error) {
	call, ok := r.calls[id]
	if !ok || !call.DeletedAt.IsZero() {
		return Call{}, ErrNotFound
	}
	return call, nil
}

func (r *memoryRepo) GetCallProducts(ctx context.Context, callID int64) ([]CallProduct, error) {
	return append([]CallProduct(nil), r.callProducts[callID]...), nil
}

func (r *memoryRepo) GetRequisition(ctx context.Context, id int64) (Requisition, []Item, error) {
	req, ok := r.reqs[id]
	if !ok {
		return Requisition{}, nil, ErrNotFound
	}
	return req, append([]Item(nil), r.items[id]...), nil
}

func (r *memoryRepo) ListCalls(ctx context.Context, filter CallFilter, limit, offset int) ([]Call, int, error) {
	out := []Call{}
	for _, call := range r.calls {
		if !call.DeletedAt.IsZero() {
			continue
		}
		if filter.ActiveOnly && !call.IsActive {
			continue
		}
		out = append(out, call)
	}
	return out, len(out), nil
}

func (r *memoryRepo) ListRequisitions(ctx context.Context, filter Filter, limit, offset int) ([]Requisition, int, error) {
	out := []Requisition{}
	for _, req := range r.reqs {
		if filter.RequestedBy > 0 && req.RequestedBy != filter.RequestedBy {
			continue
		}
		if filter.CallID > 0 && req.CallID != filter.CallID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, req)
	}
	return out, len(out), nil
}

func (tx *memoryTx) nextID() int64 {
	tx.repo.nextID++
	return tx.repo.nextID
}

func (tx *memoryTx) InsertCall(ctx context.Context, call Call) (int64, error) {
	id := tx.nextID()
	call.ID = id
	tx.repo.calls[id] = call
	return id, nil
}

func (tx *memoryTx) UpdateCall(ctx context.Context, call Call) error {
	tx.repo.calls[call.ID] = call
	return nil
}

func (tx *memoryTx) SoftDeleteCall(ctx context.Context, id int64, at time.Time) error {
	call := tx.repo.calls[id]
	call.DeletedAt = at
	call.IsActive = false
	tx.repo.calls[id] = call
	return nil
}

func (tx *memoryTx) UpsertCallProduct(ctx context.Context, product CallProduct) error {
	products := tx.repo.callProducts[product.CallID]
	for i, existing := range products {
		if existing.ProductID == product.ProductID {
			products[i] = product
			return nil
		}
	}
	tx.repo.callProducts[product.CallID] = append(products, product)
	return nil
}

func (tx *memoryTx) InsertRequisition(ctx context.Context, req Requisition) (int64, error) {
	id := tx.nextID()
	req.ID = id
	tx.repo.reqs[id] = req
	return id, nil
}

func (tx *memoryTx) InsertItem(ctx context.Context, item Item) (int64, error) {
	id := tx.nextID()
	item.ID = id
	tx.repo.items[item.RequisitionID] = append(tx.repo.items[item.RequisitionID], item)
	return id, nil
}

func (tx *memoryTx) UpdateItem(ctx context.Context, item Item) error {
	items := tx.repo.items[item.RequisitionID]
	for i, existing := range items {
		if existing.ID == item.ID {
			items[i].RequestedQty = item.RequestedQty
			items[i].UnitID = item.UnitID
			items[i].Notes = item.Notes
			return nil
		}
	}
	return ErrNotFound
}

func (tx *memoryTx) SetItemApprovedQty(ctx context.Context, itemID int64, qty float64) error {
	for reqID, items := range tx.repo.items {
		for i, item := range items {
			if item.ID == itemID {
				tx.repo.items[reqID][i].ApprovedQty = qty
				return nil
			}
		}
	}
	return ErrNotFound
}

func (tx *memoryTx) GetRequisitionForUpdate(ctx context.Context, id int64) (Requisition, error) {
	req, ok := tx.repo.reqs[id]
	if !ok {
		return Requisition{}, ErrNotFound
	}
	return req, nil
}

func (tx *memoryTx) MarkSent(ctx context.Context, id int64, at time.Time) error {
	req := tx.repo.reqs[id]
	req.Status = StatusSent
	req.RequestedAt = at
	tx.repo.reqs[id] = req
	return nil
}

func (tx *memoryTx) MarkApproved(ctx context.Context, id int64, approvedBy int64, at time.Time, exitID int64) error {
	if tx.repo.failMarkApproved != nil {
		return tx.repo.failMarkApproved
	}
	req := tx.repo.reqs[id]
	req.Status = StatusApproved
	req.ApprovedBy = approvedBy
	req.ApprovedAt = at
	req.ExitID = exitID
	tx.repo.reqs[id] = req
	return nil
}

type stubExitPoster struct {
	inputs []inventory.ExitInput
	nextID int64
}

func (s *stubExitPoster) PostExit(ctx context.Context, input inventory.ExitInput) (inventory.Document, error) {
	s.inputs = append(s.inputs, input)
	s.nextID++
	return inventory.Document{ID: s.nextID, Code: input.Code, Type: inventory.DocumentTypeExit, WarehouseID: input.WarehouseID}, nil
}

type memoryIdempotency struct {
	keys    map[string]string
	deleted []string
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: make(map[string]string)}
}

func (m *memoryIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	if _, ok := m.keys[key]; ok {
		return shared.ErrIdempotencyConflict
	}
	m.keys[key] = module
	return nil
}

func (m *memoryIdempotency) Delete(ctx context.Context, key string) error {
	delete(m.keys, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type stubNotifier struct {
	events []ApprovedEvent
}

func (s *stubNotifier) EnqueueApprovalNotice(ctx context.Context, evt ApprovedEvent) error {
	s.events = append(s.events, evt)
	return nil
}

type testEnv struct {
	repo     *memoryRepo
	exits    *stubExitPoster
	idem     *memoryIdempotency
	notifier *stubNotifier
	svc      *Service
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     newMemoryRepo(),
		exits:    &stubExitPoster{},
		idem:     newMemoryIdempotency(),
		notifier: &stubNotifier{},
		now:      time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.repo, env.exits, nil, nil, env.idem, env.notifier, slog.Default(), ServiceConfig{Location: time.UTC}).
		WithClock(func() time.Time { return env.now })
	return env
}

func (e *testEnv) createCall(t *testing.T, openAt, closeAt time.Time, products ...int64) Call {
	t.Helper()
	input := CreateCallInput{Year: openAt.Year(), Month: int(openAt.Month()), Title: "monthly supplies", OpenAt: openAt, CloseAt: closeAt, CreatedBy: 1}
	for _, productID := range products {
		input.Products = append(input.Products, CallProductInput{ProductID: productID, IsEnabled: true})
	}
	call, err := e.svc.CreateCall(context.Background(), input)
	require.NoError(t, err)
	return call
}

var (
	windowOpen  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowClose = time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)
)

func TestCreateCallRejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.CreateCall(context.Background(), CreateCallInput{
		Year: 2024, Month: 1, Title: "bad window",
		OpenAt:  windowClose,
		CloseAt: windowOpen,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateCallRejectsSpanOverTenDays(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.CreateCall(context.Background(), CreateCallInput{
		Year: 2024, Month: 1, Title: "too long",
		OpenAt:  windowOpen,
		CloseAt: windowOpen.Add(10*24*time.Hour + time.Second),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCallValidatesEffectiveDates(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose)

	// Only close_at supplied: still checked against the stored open_at.
	tooEarly := windowOpen.Add(-time.Hour)
	_, err := env.svc.UpdateCall(context.Background(), call.ID, UpdateCallInput{CloseAt: &tooEarly})
	require.ErrorIs(t, err, ErrValidation)

	tooLate := windowOpen.Add(11 * 24 * time.Hour)
	_, err = env.svc.UpdateCall(context.Background(), call.ID, UpdateCallInput{CloseAt: &tooLate})
	require.ErrorIs(t, err, ErrValidation)

	valid := windowOpen.Add(9 * 24 * time.Hour)
	updated, err := env.svc.UpdateCall(context.Background(), call.ID, UpdateCallInput{CloseAt: &valid})
	require.NoError(t, err)
	require.True(t, valid.Equal(updated.CloseAt))
}

func TestSyncProductsUpsertsWithoutDeleting(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10, 11)

	err := env.svc.SyncProducts(context.Background(), call.ID, []CallProductInput{
		{ProductID: 10, IsEnabled: false},
		{ProductID: 12, IsEnabled: true},
	})
	require.NoError(t, err)

	products, err := env.repo.GetCallProducts(context.Background(), call.ID)
	require.NoError(t, err)
	require.Len(t, products, 3)
	enabled := map[int64]bool{}
	for _, product := range products {
		enabled[product.ProductID] = product.IsEnabled
	}
	require.False(t, enabled[10])
	require.True(t, enabled[11])
	require.True(t, enabled[12])
}

func TestCreateDraftSeedsEnabledProducts(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10, 11)
	require.NoError(t, env.svc.SyncProducts(context.Background(), call.ID, []CallProductInput{{ProductID: 11, IsEnabled: false}}))

	req, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, req.Status)
	require.Len(t, items, 1)
	require.Equal(t, int64(10), items[0].ProductID)
	require.Zero(t, items[0].RequestedQty)
}

func TestCreateDraftExactWindowCheck(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)

	env.now = windowOpen.Add(-time.Minute)
	_, _, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.ErrorIs(t, err, ErrWindowClosed)

	// 2024-01-05 19:00 is on the close day but past close_at; the exact
	// comparison rejects it even though Send would still allow it.
	env.now = windowClose.Add(time.Hour)
	_, _, err = env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.ErrorIs(t, err, ErrWindowClosed)

	env.now = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, _, err = env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.ErrorIs(t, err, ErrWindowClosed)

	env.now = windowOpen.Add(time.Hour)
	_, _, err = env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
}

func TestSaveDraftOwnershipAndState(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID

	err = env.svc.SaveDraft(context.Background(), reqID, 99, []ItemInput{{ItemID: items[0].ID, RequestedQty: 3}})
	require.ErrorIs(t, err, ErrForbidden)

	err = env.svc.SaveDraft(context.Background(), reqID, 50, []ItemInput{{ItemID: 9999, RequestedQty: 3}})
	require.ErrorIs(t, err, ErrValidation)

	err = env.svc.SaveDraft(context.Background(), reqID, 50, []ItemInput{{ItemID: items[0].ID, RequestedQty: 3, UnitID: 7, Notes: "boxes"}})
	require.NoError(t, err)

	_, saved, err := env.repo.GetRequisition(context.Background(), reqID)
	require.NoError(t, err)
	require.InDelta(t, 3, saved[0].RequestedQty, 0.0001)
	require.Equal(t, int64(7), saved[0].UnitID)

	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))
	err = env.svc.SaveDraft(context.Background(), reqID, 50, []ItemInput{{ItemID: items[0].ID, RequestedQty: 1}})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSendDayGranularityWindow(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID

	// 23:00 on the close day: past close_at but within the close day,
	// allowed by the day-granularity check.
	env.now = time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	// Re-entrant from SENT.
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	// Five days later: outside the window at any granularity.
	env.now = time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC)
	require.ErrorIs(t, env.svc.Send(context.Background(), reqID, 50), ErrWindowClosed)
}

func TestSendRequiresActiveCall(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID

	inactive := false
	_, err = env.svc.UpdateCall(context.Background(), call.ID, UpdateCallInput{IsActive: &inactive})
	require.NoError(t, err)

	require.ErrorIs(t, env.svc.Send(context.Background(), reqID, 50), ErrCallInactive)
}

func TestApprovePostsSingleExitAndLinksIt(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10, 11, 12)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	approved, err := env.svc.Approve(context.Background(), ApproveInput{
		RequisitionID: reqID,
		ActorID:       200,
		WarehouseID:   1,
		Items: []ApprovalItemInput{
			{ItemID: items[0].ID, ApprovedQty: 4},
			{ItemID: items[1].ID, ApprovedQty: 0},
			{ItemID: items[2].ID, ApprovedQty: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.Equal(t, int64(200), approved.ApprovedBy)
	require.NotZero(t, approved.ExitID)

	require.Len(t, env.exits.inputs, 1)
	exit := env.exits.inputs[0]
	require.Equal(t, int64(1), exit.WarehouseID)
	require.Len(t, exit.Lines, 2)
	require.Equal(t, int64(10), exit.Lines[0].ProductID)
	require.InDelta(t, 4, exit.Lines[0].Qty, 0.0001)
	require.Equal(t, int64(12), exit.Lines[1].ProductID)

	require.Len(t, env.notifier.events, 1)
	require.Equal(t, reqID, env.notifier.events[0].RequisitionID)
	require.Equal(t, approved.ExitID, env.notifier.events[0].ExitID)
}

func TestApproveRejectsWrongStateAndNegativeQty(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID

	// Still DRAFT.
	_, err = env.svc.Approve(context.Background(), ApproveInput{RequisitionID: reqID, ActorID: 200, WarehouseID: 1, Items: []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 1}}})
	require.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	_, err = env.svc.Approve(context.Background(), ApproveInput{RequisitionID: reqID, ActorID: 200, WarehouseID: 1, Items: []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: -1}}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Approve(context.Background(), ApproveInput{RequisitionID: reqID, ActorID: 200, WarehouseID: 1, Items: []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 2}}})
	require.NoError(t, err)

	// Terminal: a second approval fails.
	_, err = env.svc.Approve(context.Background(), ApproveInput{RequisitionID: reqID, ActorID: 201, WarehouseID: 1, Items: []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 2}}})
	require.ErrorIs(t, err, ErrInvalidState)
	require.Len(t, env.exits.inputs, 1)
}

func TestApproveWithAllZeroQuantitiesSkipsExit(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	approved, err := env.svc.Approve(context.Background(), ApproveInput{
		RequisitionID: reqID,
		ActorID:       200,
		Items:         []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 0}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.Zero(t, approved.ExitID)
	require.Empty(t, env.exits.inputs)
}

func TestApproveFailureRollsBackAndReleasesKey(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	env.repo.failMarkApproved = errors.New("connection reset")
	_, err = env.svc.Approve(context.Background(), ApproveInput{
		RequisitionID: reqID,
		ActorID:       200,
		WarehouseID:   1,
		Items:         []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 2}},
	})
	require.Error(t, err)

	// The transaction rolled back: still SENT, no linked exit, approved
	// quantities untouched.
	stored := env.repo.reqs[reqID]
	require.Equal(t, StatusSent, stored.Status)
	require.Zero(t, stored.ExitID)
	require.Zero(t, env.repo.items[reqID][0].ApprovedQty)

	// The guard key was released, so the requisition is not stuck.
	key := fmt.Sprintf("REQ-APPROVE:%d", reqID)
	require.NotContains(t, env.idem.keys, key)
	require.Contains(t, env.idem.deleted, key)

	env.repo.failMarkApproved = nil
	approved, err := env.svc.Approve(context.Background(), ApproveInput{
		RequisitionID: reqID,
		ActorID:       200,
		WarehouseID:   1,
		Items:         []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.NotZero(t, approved.ExitID)
	require.Equal(t, approved.ExitID, env.repo.reqs[reqID].ExitID)
}

func TestApproveRejectsDuplicateKey(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	key := fmt.Sprintf("REQ-APPROVE:%d", reqID)
	env.idem.keys[key] = "requisition.approve"

	_, err = env.svc.Approve(context.Background(), ApproveInput{
		RequisitionID: reqID,
		ActorID:       200,
		WarehouseID:   1,
		Items:         []ApprovalItemInput{{ItemID: items[0].ID, ApprovedQty: 2}},
	})
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Empty(t, env.exits.inputs)
	require.Equal(t, StatusSent, env.repo.reqs[reqID].Status)
	// A rejected duplicate never removes the original key.
	require.Contains(t, env.idem.keys, key)
}

func TestListMineFiltersByOwner(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, _, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	_, _, err = env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 3, ActorID: 60})
	require.NoError(t, err)

	mine, pagination, err := env.svc.ListMine(context.Background(), 50, Filter{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, int64(50), mine[0].RequestedBy)
	require.Equal(t, 1, pagination.Total)

	all, _, err := env.svc.ListAll(context.Background(), Filter{CallID: call.ID}, 1, 20)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeleteCallSoftDeletes(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)

	require.NoError(t, env.svc.DeleteCall(context.Background(), call.ID, 1))

	_, err := env.repo.GetCall(context.Background(), call.ID)
	require.ErrorIs(t, err, ErrNotFound)
	// The row survives with deleted_at set.
	stored := env.repo.calls[call.ID]
	require.False(t, stored.DeletedAt.IsZero())
}
