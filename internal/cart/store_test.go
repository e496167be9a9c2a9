package cart

import (
	"context"
	"testing"

	"faunastore/internal/domain"
	"faunastore/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	backing := storage.NewMemoryStore()
	return NewStore(context.Background(), backing), backing
}

func item(id string, productID int, price string, quantity int) domain.LineItem {
	return domain.LineItem{
		ID:        id,
		ProductID: productID,
		Title:     "product " + id,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  quantity,
	}
}

func TestAddItem_Appends(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	items := store.AddItem(ctx, item("7-0", 7, "10.50", 1))

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, store.Contains("7-0"))
}

func TestAddItem_MergesQuantities(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.AddItem(ctx, item("7-0", 7, "10.50", 2))
	items := store.AddItem(ctx, item("7-0", 7, "10.50", 4))

	// Merge, not overwrite: quantities sum
	require.Len(t, items, 1)
	assert.Equal(t, 7, store.QuantityOf("7-0"))
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.AddItem(ctx, item("12-0", 12, "5.00", 1))
	store.AddItem(ctx, item("7-0", 7, "10.50", 1))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "7-0", items[0].ID)
	assert.Equal(t, "12-0", items[1].ID)
}

func TestRemoveItem(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.RemoveItem(ctx, "7-0")

	assert.False(t, store.Contains("7-0"))
	assert.Empty(t, store.Items())
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))

	notified := 0
	store.Subscribe(func() { notified++ })
	store.RemoveItem(ctx, "missing")

	assert.Len(t, store.Items(), 1)
	assert.Zero(t, notified)
}

func TestSetQuantity(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.SetQuantity(ctx, "7-0", 5)

	assert.Equal(t, 5, store.QuantityOf("7-0"))
}

func TestSetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.SetQuantity(ctx, "7-0", 0)
	assert.False(t, store.Contains("7-0"))

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.SetQuantity(ctx, "7-0", -1)
	assert.False(t, store.Contains("7-0"))
	assert.Zero(t, store.QuantityOf("7-0"))
}

func TestClear(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.AddItem(ctx, item("12-0", 12, "5.00", 2))
	store.Clear(ctx)

	assert.Empty(t, store.Items())
	assert.True(t, store.Total().IsZero())
}

func TestVariantInUse(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	withVariant := item("7-2", 7, "10.50", 1)
	withVariant.Variant = 2
	store.AddItem(ctx, withVariant)

	variant, ok := store.VariantInUse(7)
	assert.True(t, ok)
	assert.Equal(t, 2, variant)

	_, ok = store.VariantInUse(99)
	assert.False(t, ok)
}

func TestTotal(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 3))
	store.AddItem(ctx, item("12-0", 12, "0.99", 2))

	assert.True(t, store.Total().Equal(decimal.RequireFromString("33.48")))
}

func TestMutationsPersist(t *testing.T) {
	store, backing := setupStore(t)
	ctx := context.Background()

	store.AddItem(ctx, item("7-0", 7, "10.50", 2))

	var persisted []domain.LineItem
	require.NoError(t, backing.Load(ctx, "cart", &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, persisted[0].Quantity)
}

func TestRestoreFromPersistedState(t *testing.T) {
	backing := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewStore(ctx, backing)
	first.AddItem(ctx, item("7-0", 7, "10.50", 3))

	// A second store over the same backing stands in for a fresh session
	second := NewStore(ctx, backing)
	assert.Equal(t, 3, second.QuantityOf("7-0"))
}

func TestSubscribersRunSynchronously(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	var seen []int
	store.Subscribe(func() { seen = append(seen, len(store.Items())) })

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))
	store.AddItem(ctx, item("12-0", 12, "5.00", 1))
	store.Clear(ctx)

	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	backing := &failingStore{}
	ctx := context.Background()
	store := NewStore(ctx, backing)

	notified := 0
	store.Subscribe(func() { notified++ })

	store.AddItem(ctx, item("7-0", 7, "10.50", 1))

	// The failed write is logged; the in-memory cart stays authoritative
	// and subscribers still hear about the mutation
	assert.Equal(t, 1, store.QuantityOf("7-0"))
	assert.Equal(t, 1, notified)
	assert.Equal(t, 1, backing.saveCalls)
}
