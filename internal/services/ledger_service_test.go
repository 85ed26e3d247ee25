package services

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tight/internal/core"
	"tight/internal/date"
)

type fakeStore struct {
	entries map[int64]core.Entry
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[int64]core.Entry), nextID: 1}
}

func (f *fakeStore) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	id := f.nextID
	f.nextID++
	e.ID = id
	f.entries[id] = e
	return id, nil
}

func (f *fakeStore) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return core.Entry{}, errors.New("not found")
	}
	return e, nil
}

func (f *fakeStore) ListEntries(ctx context.Context) ([]core.Entry, error) {
	out := make([]core.Entry, 0, len(f.entries))
	for id := int64(1); id < f.nextID; id++ {
		if e, ok := f.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteEntry(ctx context.Context, id int64) error {
	delete(f.entries, id)
	return nil
}

func TestLedgerCreateEntryValidates(t *testing.T) {
	svc := NewLedgerService(newFakeStore())

	_, err := svc.CreateEntry(context.Background(), core.Entry{
		Kind:   core.KindExpense,
		Amount: core.Money{Cents: 100},
		Start:  date.FromYMD(2024, 1, 1),
	})
	assert.ErrorIs(t, err, core.ErrEmptyDescription)
}

func TestLedgerCreateAndList(t *testing.T) {
	svc := NewLedgerService(newFakeStore())
	ctx := context.Background()

	id, err := svc.CreateEntry(ctx, core.Entry{
		Kind:        core.KindExpense,
		Description: "coffee",
		Amount:      core.Money{Cents: 250},
		Start:       date.FromYMD(2024, 5, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	entries, err := svc.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "coffee", entries[0].Description)
}

func TestLedgerReport(t *testing.T) {
	svc := NewLedgerService(newFakeStore())
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, core.Entry{
		Kind: core.KindExpense, Description: "rent march", Amount: core.Money{Cents: 90000},
		Start: date.FromYMD(2024, 3, 1),
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, core.Entry{
		Kind: core.KindIncome, Description: "salary march", Amount: core.Money{Cents: 250000},
		Start: date.FromYMD(2024, 3, 27),
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, core.Entry{
		Kind: core.KindExpense, Description: "groceries", Amount: core.Money{Cents: 12000},
		Start: date.FromYMD(2024, 4, 2),
	})
	require.NoError(t, err)

	entries, summary, err := svc.Report(ctx, "march",
		mo.None[date.SimpleDate](), mo.None[date.SimpleDate]())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(90000), summary.Expenses.Cents)
	assert.Equal(t, int64(250000), summary.Income.Cents)
	assert.Equal(t, int64(160000), summary.Net)
}
