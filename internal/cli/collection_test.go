package cli

import (
	"context"
	"testing"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/blobstore"
	"github.com/hupe1980/recstore/codec"
	"github.com/hupe1980/recstore/inventory"
	"github.com/hupe1980/recstore/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T) Collection {
	t.Helper()
	c, err := NewCollection("inventory")
	require.NoError(t, err)

	for _, fields := range []map[string]string{
		{"id": "1", "name": "Phone", "category": "electronics", "quantity": "5", "price": "1000"},
		{"id": "2", "name": "Shirt", "category": "3", "quantity": "3", "price": "20"},
		{"id": "3", "name": "Bread", "category": "Groceries", "quantity": "10", "price": "3"},
	} {
		_, err := c.Add(fields)
		require.NoError(t, err)
	}
	return c
}

func rowNames(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Fields["name"].StringValue()
	}
	return out
}

func TestNewCollection(t *testing.T) {
	for _, name := range []string{"inventory", "contacts"} {
		c, err := NewCollection(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
		assert.Zero(t, c.Len())
	}

	_, err := NewCollection("orders")
	assert.ErrorContains(t, err, "unknown collection")
}

func TestInventoryCollectionAdd(t *testing.T) {
	c := newTestInventory(t)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "id", c.KeyField())

	row, ok, err := c.Get("2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), row.Key)
	assert.Equal(t, "Clothing", row.Fields["category"].StringValue(), "category is canonicalized")

	_, ok, err = c.Get("42")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.Get("two")
	assert.Error(t, err)
}

func TestInventoryCollectionAddErrors(t *testing.T) {
	c := newTestInventory(t)

	tests := []struct {
		name   string
		fields map[string]string
		errMsg string
	}{
		{"missing key", map[string]string{"name": "x"}, `missing key field "id"`},
		{"bad key", map[string]string{"id": "x"}, `key "id"`},
		{"unknown field", map[string]string{"id": "4", "colour": "red"}, `unknown field "colour"`},
		{"bad int", map[string]string{"id": "4", "quantity": "many"}, "is not an integer"},
		{"bad category", map[string]string{"id": "4", "name": "Ball", "category": "Toys", "quantity": "1", "price": "1"}, "unknown category"},
		{"negative price", map[string]string{"id": "4", "name": "Ball", "category": "1", "quantity": "1", "price": "-1"}, "negative price"},
		{"missing fields", map[string]string{"id": "4", "name": "Ball"}, "invalid record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Add(tt.fields)
			assert.ErrorContains(t, err, tt.errMsg)
			assert.Equal(t, 3, c.Len())
		})
	}

	_, err := c.Add(map[string]string{"id": "4", "name": "Ball", "category": "1", "quantity": "1", "price": "-1"})
	assert.ErrorIs(t, err, inventory.ErrInvalidItem)
}

func TestInventoryCollectionQuery(t *testing.T) {
	c := newTestInventory(t)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all by key", Query{}, []string{"Phone", "Shirt", "Bread"}},
		{"by price", Query{Sort: "price"}, []string{"Bread", "Shirt", "Phone"}},
		{"by price desc limited", Query{Sort: "price", Desc: true, Limit: 2}, []string{"Phone", "Shirt"}},
		{"where category", Query{Where: []Condition{{Field: "category", Value: "Electronics"}}}, []string{"Phone"}},
		{"where category lower case", Query{Where: []Condition{{Field: "category", Value: "electronics"}}}, []string{"Phone"}},
		{"where category number", Query{Where: []Condition{{Field: "category", Value: "1"}}}, []string{"Phone"}},
		{"where category number and int", Query{Where: []Condition{{Field: "category", Value: "3"}, {Field: "quantity", Value: "3"}}}, []string{"Shirt"}},
		{"where int", Query{Where: []Condition{{Field: "quantity", Value: "3"}}}, []string{"Shirt"}},
		{"match name", Query{Match: "ea"}, []string{"Bread"}},
		{"match category", Query{Match: "ocer"}, []string{"Bread"}},
		{"match any", Query{Match: "o", Sort: "name"}, []string{"Bread", "Phone", "Shirt"}},
		{"no match", Query{Match: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := c.Query(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rowNames(rows))
		})
	}
}

func TestCollectionQueryErrors(t *testing.T) {
	c := newTestInventory(t)

	_, err := c.Query(Query{Sort: "colour"})
	assert.ErrorIs(t, err, recstore.ErrInvalidQuery)

	_, err = c.Query(Query{Where: []Condition{{Field: "colour", Value: "red"}}})
	assert.ErrorIs(t, err, recstore.ErrInvalidQuery)

	_, err = c.Query(Query{Where: []Condition{{Field: "price", Value: "cheap"}}})
	assert.ErrorContains(t, err, "where price")

	_, err = c.Query(Query{Where: []Condition{{Field: "category", Value: "Toys"}}})
	assert.ErrorIs(t, err, inventory.ErrUnknownCategory)
}

func TestCollectionRemove(t *testing.T) {
	c := newTestInventory(t)

	removed, err := c.Remove("1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.Remove("1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, c.Len())
}

func TestContactsCollection(t *testing.T) {
	c, err := NewCollection("contacts")
	require.NoError(t, err)
	assert.Equal(t, "name", c.KeyField())

	key, err := c.Add(map[string]string{"name": "John Doe", "phone": "123-456-7890", "email": "john.doe@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", key)
	_, err = c.Add(map[string]string{"name": "Jane Smith", "phone": "987-654-3210", "email": "jane.smith@example.com"})
	require.NoError(t, err)

	row, ok, err := c.Get("John Doe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "123-456-7890", row.Fields["phone"].StringValue())

	rows, err := c.Query(Query{Match: "987"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Smith"}, rowNames(rows))
}

func TestCollectionLoad(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, "items.json", []byte(`[
		{"id": 1, "name": "Phone", "category": "Electronics", "quantity": 5, "price": 1000},
		{"id": 2, "name": "Shirt", "category": "Clothing", "quantity": 3, "price": 20}
	]`)))

	c, err := NewCollection("inventory")
	require.NoError(t, err)

	n, err := c.Load(ctx, blobs, codec.Default, "items.json")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, ok, err := c.Get("1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, metadata.Int(1000), row.Fields["price"])
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ     metadata.FieldType
		in      string
		want    metadata.Value
		wantErr bool
	}{
		{metadata.FieldTypeInt, "42", metadata.Int(42), false},
		{metadata.FieldTypeInt, "4.2", metadata.Value{}, true},
		{metadata.FieldTypeFloat, "4.5", metadata.Float(4.5), false},
		{metadata.FieldTypeFloat, "x", metadata.Value{}, true},
		{metadata.FieldTypeBool, "true", metadata.Bool(true), false},
		{metadata.FieldTypeBool, "maybe", metadata.Value{}, true},
		{metadata.FieldTypeString, "John Doe", metadata.String("John Doe"), false},
		{metadata.FieldTypeAny, "12", metadata.String("12"), false},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.typ, tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}
}

func TestParseAssignmentsAndConditions(t *testing.T) {
	got, err := ParseAssignments([]string{"name=John Doe", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "John Doe", "note": "a=b"}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)

	conds, err := ParseConditions([]string{"category=Clothing"})
	require.NoError(t, err)
	assert.Equal(t, []Condition{{Field: "category", Value: "Clothing"}}, conds)

	_, err = ParseConditions([]string{"=x"})
	assert.Error(t, err)
}

func TestCollectionLoadNormalizes(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, "items.jsonl", []byte(`{"id": 1, "name": "Phone", "category": "electronics", "quantity": 5, "price": 1000}
{"id": 2, "name": "Shirt", "category": "3", "quantity": 3, "price": 20}
`)))

	c, err := NewCollection("inventory")
	require.NoError(t, err)

	n, err := c.Load(ctx, blobs, codec.Default, "items.jsonl")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, ok, err := c.Get("1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Electronics", row.Fields["category"].StringValue())

	row, ok, err = c.Get("2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Clothing", row.Fields["category"].StringValue())

	for _, value := range []string{"1", "Electronics", "ELECTRONICS"} {
		rows, err := c.Query(Query{Where: []Condition{{Field: "category", Value: value}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Phone"}, rowNames(rows), value)
	}
}

func TestCollectionLoadRejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"negative.jsonl", `{"id": 1, "name": "Phone", "category": "Electronics", "quantity": -5, "price": 1000}`, inventory.ErrInvalidItem},
		{"category.jsonl", `{"id": 1, "name": "Phone", "category": "Toys", "quantity": 5, "price": 1000}`, inventory.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			blobs := blobstore.NewMemoryStore()
			require.NoError(t, blobs.Put(ctx, "ok.jsonl", []byte(`{"id": 2, "name": "Shirt", "category": "Clothing", "quantity": 3, "price": 20}`)))
			require.NoError(t, blobs.Put(ctx, tt.name, []byte(tt.data)))

			c, err := NewCollection("inventory")
			require.NoError(t, err)

			_, err = c.Load(ctx, blobs, codec.Default, "ok.jsonl", tt.name)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, c.Len())
		})
	}
}
