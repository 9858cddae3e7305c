package cart

import (
	"math"
	"sync"
	"testing"

	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	store := catalog.NewStore()
	require.NoError(t, store.Load([]catalog.Item{
		{ID: "bread", Name: "Memory Bread", UnitPrice: 300, Category: "Specials"},
		{ID: "dorayaki", Name: "Dorayaki", UnitPrice: 500, Category: "Desserts"},
		{ID: "latte", Name: "Small Light Latte", UnitPrice: 400, Category: "Drinks"},
	}))
	return New(store)
}

// ============================================
// Add Item Tests
// ============================================

func TestCart_AddItem_NewLine(t *testing.T) {
	c := newTestCart(t)

	err := c.AddItem("bread", 2)

	require.NoError(t, err)
	assert.Equal(t, []Line{{ItemID: "bread", Quantity: 2}}, c.Lines())
}

func TestCart_AddItem_SameItemAccumulates(t *testing.T) {
	c := newTestCart(t)
	quantities := []int{1, 3, 2, 5}

	for _, q := range quantities {
		require.NoError(t, c.AddItem("dorayaki", q))
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 11, lines[0].Quantity)
}

func TestCart_AddItem_KeepsInsertionOrder(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.AddItem("latte", 1))
	require.NoError(t, c.AddItem("bread", 1))
	require.NoError(t, c.AddItem("latte", 1))
	require.NoError(t, c.AddItem("dorayaki", 1))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "latte", lines[0].ItemID)
	assert.Equal(t, "bread", lines[1].ItemID)
	assert.Equal(t, "dorayaki", lines[2].ItemID)
}

func TestCart_AddItem_UnknownItem(t *testing.T) {
	c := newTestCart(t)

	err := c.AddItem("pizza", 1)

	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Empty(t, c.Lines())
}

func TestCart_AddItem_InvalidQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{"zero", 0},
		{"negative", -1},
		{"above max", MaxQuantity + 1},
		{"max int", math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCart(t)

			err := c.AddItem("bread", tt.quantity)

			assert.ErrorIs(t, err, ErrInvalidQuantity)
			assert.Empty(t, c.Lines())
		})
	}
}

func TestCart_AddItem_AccumulationCappedAtMax(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", MaxQuantity-1))

	require.NoError(t, c.AddItem("bread", 1))
	err := c.AddItem("bread", 1)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, []Line{{ItemID: "bread", Quantity: MaxQuantity}}, c.Lines())
}

// ============================================
// Set Quantity Tests
// ============================================

func TestCart_SetQuantity_Success(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 1))

	err := c.SetQuantity("bread", 4)

	require.NoError(t, err)
	assert.Equal(t, 4, c.Lines()[0].Quantity)
}

func TestCart_SetQuantity_LineNotFound(t *testing.T) {
	c := newTestCart(t)

	err := c.SetQuantity("bread", 2)

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCart_SetQuantity_OutOfRangeRejected(t *testing.T) {
	for _, q := range []int{0, -1, MaxQuantity + 1, math.MaxInt} {
		c := newTestCart(t)
		require.NoError(t, c.AddItem("bread", 3))

		err := c.SetQuantity("bread", q)

		assert.ErrorIs(t, err, ErrInvalidQuantity)
		// quantity unchanged, line not removed
		assert.Equal(t, []Line{{ItemID: "bread", Quantity: 3}}, c.Lines())
	}
}

// ============================================
// Remove / Clear Tests
// ============================================

func TestCart_RemoveItem_Idempotent(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 1))
	require.NoError(t, c.AddItem("latte", 2))

	c.RemoveItem("bread")
	c.RemoveItem("bread")

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "latte", lines[0].ItemID)
}

func TestCart_RemoveItem_Absent(t *testing.T) {
	c := newTestCart(t)

	c.RemoveItem("nothing")

	assert.True(t, c.IsEmpty())
}

func TestCart_AddRemoveAdd_RoundTrip(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("dorayaki", 2))
	original := c.Lines()

	c.RemoveItem("dorayaki")
	require.NoError(t, c.AddItem("dorayaki", 2))

	assert.Equal(t, original, c.Lines())
}

func TestCart_Clear(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 1))
	require.NoError(t, c.AddItem("latte", 1))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Lines())
	assert.Equal(t, 0, c.ItemCount())
}

func TestCart_Lines_ReturnsCopy(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 1))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestCart_ItemCount(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 2))
	require.NoError(t, c.AddItem("dorayaki", 1))

	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := newTestCart(t)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.AddItem("bread", 1)
			_ = c.Lines()
		}()
	}
	wg.Wait()

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
}

// ============================================
// Deduct Tests
// ============================================

func TestCart_Deduct_KeepsQuantityAddedAfterSnapshot(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 2))
	require.NoError(t, c.AddItem("dorayaki", 1))
	snapshot := c.Lines()

	require.NoError(t, c.AddItem("bread", 3))
	require.NoError(t, c.AddItem("latte", 1))
	c.Deduct(snapshot)

	assert.Equal(t, []Line{{ItemID: "bread", Quantity: 3}, {ItemID: "latte", Quantity: 1}}, c.Lines())
}

func TestCart_Deduct_WholeSnapshotEmptiesCart(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 2))

	c.Deduct(c.Lines())

	assert.True(t, c.IsEmpty())
}

func TestCart_Deduct_IgnoresRemovedLines(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.AddItem("bread", 2))
	snapshot := c.Lines()
	c.RemoveItem("bread")
	require.NoError(t, c.AddItem("latte", 1))

	c.Deduct(snapshot)

	assert.Equal(t, []Line{{ItemID: "latte", Quantity: 1}}, c.Lines())
}
