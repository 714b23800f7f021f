package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_AddAndRead(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	sale := newTestSale(t, ItemInput{ProductID: uuid.New(), Quantity: 5, UnitPrice: dec("4")})

	require.NoError(t, storage.Add(ctx, sale))

	got, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	assert.True(t, sale.Record().sameState(got.Record()))

	exists, err := storage.ExistsBySaleNumber(ctx, "S-001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorage_DuplicateSaleNumber(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()

	require.NoError(t, storage.Add(ctx, newTestSale(t)))
	err := storage.Add(ctx, newTestSale(t))

	assert.ErrorIs(t, err, ErrDuplicateSaleNumber)
}

func TestLocalStorage_ReadNotFound(t *testing.T) {
	_, err := NewLocalStorage().Read(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_ReadReturnsDetachedCopy(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	sale := newTestSale(t, ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("9")})
	require.NoError(t, storage.Add(ctx, sale))

	loaded, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	loaded.CancelSale()

	again, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	assert.False(t, again.Cancelled(), "unsaved changes must not leak into storage")
}

func TestLocalStorage_Save(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	sale := newTestSale(t, ItemInput{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("9")})
	require.NoError(t, storage.Add(ctx, sale))

	changed, err := storage.Save(ctx, sale)
	require.NoError(t, err)
	assert.False(t, changed, "saving identical state has no effect")

	sale.CancelSale()
	changed, err = storage.Save(ctx, sale)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	assert.True(t, got.Cancelled())
	assert.True(t, got.TotalAmount().IsZero())

	_, err = storage.Save(ctx, newTestSale(t))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_GetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, number := range []string{"A", "B", "C"} {
		sale, err := NewSale(number, base.Add(time.Duration(i)*time.Hour), uuid.New(), uuid.New(), []ItemInput{})
		require.NoError(t, err)
		require.NoError(t, storage.Add(ctx, sale))
	}

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].SaleNumber())
	assert.Equal(t, "B", all[1].SaleNumber())
	assert.Equal(t, "A", all[2].SaleNumber())
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLocalStorage().Add(ctx, newTestSale(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStorage_SaveKeepsFirstCancellation(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	sale := newTestSale(t, ItemInput{ProductID: uuid.New(), Quantity: 2, UnitPrice: dec("10")})
	require.NoError(t, storage.Add(ctx, sale))

	first, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	second, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)

	restore := now
	t.Cleanup(func() { now = restore })
	firstAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	now = func() time.Time { return firstAt }
	first.CancelSale()
	changed, err := storage.Save(ctx, first)
	require.NoError(t, err)
	assert.True(t, changed)

	now = func() time.Time { return firstAt.Add(2 * time.Millisecond) }
	second.CancelSale()
	changed, err = storage.Save(ctx, second)
	require.NoError(t, err)
	assert.False(t, changed, "a second cancellation must not overwrite the first")

	got, err := storage.Read(ctx, sale.ID())
	require.NoError(t, err)
	assert.True(t, got.Cancelled())
	assert.Equal(t, firstAt, got.SaleDate())
}
