package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type balanceKey struct {
	warehouseID int64
	productID   int64
}

type memoryInvRepo struct {
	docs     map[int64]Document
	docLines map[int64][]DocumentLine
	balances map[balanceKey]Balance
	cards    []StockCardEntry
	nextID   int64
}

func newMemoryInvRepo() *memoryInvRepo {
	return &memoryInvRepo{
		docs:     make(map[int64]Document),
		docLines: make(map[int64][]DocumentLine),
		balances: make(map[balanceKey]Balance),
	}
}

type memoryInvTx struct {
	repo *memoryInvRepo
}

// WithTx snapshots state and restores it when the callback fails, so
// atomicity assertions hold in tests.
func (r *memoryInvRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapDocs := make(map[int64]Document, len(r.docs))
	for k, v := range r.docs {
		snapDocs[k] = v
	}
	snapLines := make(map[int64][]DocumentLine, len(r.docLines))
	for k, v := range r.docLines {
		snapLines[k] = append([]DocumentLine(nil), v...)
	}
	snapBal := make(map[balanceKey]Balance, len(r.balances))
	for k, v := range r.balances {
		snapBal[k] = v
	}
	snapCards := append([]StockCardEntry(nil), r.cards...)
	snapNext := r.nextID

	if err := fn(ctx, &memoryInvTx{repo: r}); err != nil {
		r.docs = snapDocs
		r.docLines = snapLines
		r.balances = snapBal
		r.cards = snapCards
		r.nextID = snapNext
		return err
	}
	return nil
}

func (r *memoryInvRepo) GetStockCard(ctx context.Context, filter StockCardFilter) ([]StockCardEntry, error) {
	return append([]StockCardEntry(nil), r.cards...), nil
}

func (r *memoryInvRepo) GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error) {
	out := []Balance{}
	for _, bal := range r.balances {
		out = append(out, bal)
	}
	return out, nil
}

func (r *memoryInvRepo) GetDocument(ctx context.Context, id int64) (Document, []DocumentLine, error) {
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, nil, ErrNotFound
	}
	return doc, append([]DocumentLine(nil), r.docLines[id]...), nil
}

func (tx *memoryInvTx) InsertDocument(ctx context.Context, doc Document) (int64, error) {
	tx.repo.nextID++
	doc.ID = tx.repo.nextID
	tx.repo.docs[doc.ID] = doc
	return doc.ID, nil
}

func (tx *memoryInvTx) InsertDocumentLines(ctx context.Context, docID int64, lines []DocumentLine) error {
	tx.repo.docLines[docID] = append(tx.repo.docLines[docID], lines...)
	return nil
}

func (tx *memoryInvTx) GetBalanceForUpdate(ctx context.Context, warehouseID, productID int64) (Balance, error) {
	bal, ok := tx.repo.balances[balanceKey{warehouseID, productID}]
	if !ok {
		return Balance{WarehouseID: warehouseID, ProductID: productID}, ErrBalanceNotFound
	}
	return bal, nil
}

func (tx *memoryInvTx) UpsertBalance(ctx context.Context, balance Balance) error {
	tx.repo.balances[balanceKey{balance.WarehouseID, balance.ProductID}] = balance
	return nil
}

func (tx *memoryInvTx) InsertCardEntry(ctx context.Context, card StockCardEntry, warehouseID, productID, docID int64) error {
	tx.repo.cards = append(tx.repo.cards, card)
	return nil
}

func newTestService(repo *memoryInvRepo) *Service {
	svc := NewService(repo, nil, nil, ServiceConfig{})
	return svc.WithClock(func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) })
}

func TestPostEntryRecomputesMovingAverage(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.PostEntry(ctx, EntryInput{
		WarehouseID: 1,
		Lines:       []EntryLineInput{{ProductID: 10, Qty: 10, UnitCost: 100}},
	})
	require.NoError(t, err)

	_, err = svc.PostEntry(ctx, EntryInput{
		WarehouseID: 1,
		Lines:       []EntryLineInput{{ProductID: 10, Qty: 10, UnitCost: 200}},
	})
	require.NoError(t, err)

	bal := repo.balances[balanceKey{1, 10}]
	require.InDelta(t, 20, bal.Qty, 0.0001)
	require.InDelta(t, 150, bal.AvgCost, 0.0001)
}

func TestPostExitCostsAtCurrentAverage(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.PostEntry(ctx, EntryInput{
		WarehouseID: 1,
		Lines:       []EntryLineInput{{ProductID: 10, Qty: 10, UnitCost: 150}},
	})
	require.NoError(t, err)

	doc, err := svc.PostExit(ctx, ExitInput{
		WarehouseID: 1,
		Lines:       []ExitLineInput{{ProductID: 10, Qty: 4}},
	})
	require.NoError(t, err)

	lines := repo.docLines[doc.ID]
	require.Len(t, lines, 1)
	require.InDelta(t, -4, lines[0].Qty, 0.0001)
	require.InDelta(t, 150, lines[0].UnitCost, 0.0001)

	bal := repo.balances[balanceKey{1, 10}]
	require.InDelta(t, 6, bal.Qty, 0.0001)
	require.InDelta(t, 150, bal.AvgCost, 0.0001)
}

func TestPostExitRejectsNegativeStockAtomically(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.PostEntry(ctx, EntryInput{
		WarehouseID: 1,
		Lines: []EntryLineInput{
			{ProductID: 10, Qty: 5, UnitCost: 100},
			{ProductID: 11, Qty: 5, UnitCost: 100},
		},
	})
	require.NoError(t, err)
	docsBefore := len(repo.docs)
	cardsBefore := len(repo.cards)

	_, err = svc.PostExit(ctx, ExitInput{
		WarehouseID: 1,
		Lines: []ExitLineInput{
			{ProductID: 10, Qty: 3},
			{ProductID: 11, Qty: 9},
		},
	})
	require.ErrorIs(t, err, ErrNegativeStock)

	require.Len(t, repo.docs, docsBefore)
	require.Len(t, repo.cards, cardsBefore)
	require.InDelta(t, 5, repo.balances[balanceKey{1, 10}].Qty, 0.0001)
	require.InDelta(t, 5, repo.balances[balanceKey{1, 11}].Qty, 0.0001)
}

func TestPostAdjustmentSigned(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.PostAdjustment(ctx, AdjustmentInput{WarehouseID: 1, ProductID: 10, Qty: 8, UnitCost: 50})
	require.NoError(t, err)

	_, err = svc.PostAdjustment(ctx, AdjustmentInput{WarehouseID: 1, ProductID: 10, Qty: -3})
	require.NoError(t, err)

	bal := repo.balances[balanceKey{1, 10}]
	require.InDelta(t, 5, bal.Qty, 0.0001)
	require.InDelta(t, 50, bal.AvgCost, 0.0001)

	_, err = svc.PostAdjustment(ctx, AdjustmentInput{WarehouseID: 1, ProductID: 10, Qty: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPostEntryValidation(t *testing.T) {
	repo := newMemoryInvRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.PostEntry(ctx, EntryInput{WarehouseID: 1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.PostEntry(ctx, EntryInput{WarehouseID: 1, Lines: []EntryLineInput{{ProductID: 10, Qty: -1, UnitCost: 5}}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.PostEntry(ctx, EntryInput{WarehouseID: 1, Lines: []EntryLineInput{{ProductID: 10, Qty: 1, UnitCost: -5}}})
	require.ErrorIs(t, err, ErrInvalidUnitCost)
}
