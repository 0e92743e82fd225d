package inventory

import (
	"testing"

	"github.com/hupe1980/recstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T) *Inventory {
	t.Helper()
	inv := New()
	require.NoError(t, inv.AddItem(Item{ID: 1, Name: "Phone", Category: Electronics, Quantity: 5, Price: 1000}))
	require.NoError(t, inv.AddItem(Item{ID: 2, Name: "Shirt", Category: Clothing, Quantity: 3, Price: 20}))
	require.NoError(t, inv.AddItem(Item{ID: 3, Name: "Bread", Category: Groceries, Quantity: 10, Price: 3}))
	return inv
}

func TestInventory(t *testing.T) {
	inv := newTestInventory(t)

	shirt, ok := inv.FindItemByID(2)
	require.True(t, ok)
	assert.Equal(t, Item{ID: 2, Name: "Shirt", Category: Clothing, Quantity: 3, Price: 20}, shirt)

	_, ok = inv.FindItemByID(4)
	assert.False(t, ok)

	electronics, err := inv.FindItemsByCategory(Electronics)
	require.NoError(t, err)
	require.Len(t, electronics, 1)
	assert.Equal(t, "Phone", electronics[0].Name)

	byPrice, err := inv.ListItems(FieldPrice)
	require.NoError(t, err)
	require.Len(t, byPrice, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{byPrice[0].ID, byPrice[1].ID, byPrice[2].ID})

	assert.Equal(t, int64(5*1000+3*20+10*3), inv.TotalValue())

	_, err = inv.ListItems("colour")
	assert.ErrorIs(t, err, recstore.ErrInvalidQuery)
}

func TestInventoryRemove(t *testing.T) {
	inv := newTestInventory(t)

	assert.True(t, inv.RemoveItem(1))
	assert.False(t, inv.RemoveItem(1))
	assert.Equal(t, 2, inv.Len())

	electronics, err := inv.FindItemsByCategory(Electronics)
	require.NoError(t, err)
	assert.Empty(t, electronics)
}

func TestAddItemRejectsInvalid(t *testing.T) {
	inv := New()

	assert.ErrorIs(t, inv.AddItem(Item{ID: 1, Name: "x", Category: Clothing, Quantity: -1}), ErrInvalidItem)
	assert.ErrorIs(t, inv.AddItem(Item{ID: 1, Name: "x", Category: Category(9)}), ErrUnknownCategory)
	assert.Zero(t, inv.Len())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"1", Electronics},
		{"2", Groceries},
		{"3", Clothing},
		{"clothing", Clothing},
		{" Electronics ", Electronics},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("Toys")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, "Category(9)", Category(9).String())
}
