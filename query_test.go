package recstore_test

import (
	"errors"
	"testing"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/metadata"
	"github.com/hupe1980/recstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactSchema = metadata.Schema{
	"name":  metadata.FieldTypeString,
	"phone": metadata.FieldTypeString,
	"email": metadata.FieldTypeString,
}

func contact(name, phone, email string) recstore.Record[string] {
	return recstore.NewRecord(name, metadata.Document{
		"name":  metadata.String(name),
		"phone": metadata.String(phone),
		"email": metadata.String(email),
	})
}

func keysOf[K interface{ ~int64 | ~string }](records []recstore.Record[K]) []K {
	out := make([]K, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestContactsScenario(t *testing.T) {
	s := recstore.New[string](contactSchema)
	require.NoError(t, s.Add(contact("John Doe", "123-456-7890", "john.doe@example.com")))
	require.NoError(t, s.Add(contact("Jane Smith", "987-654-3210", "jane.smith@example.com")))
	require.NoError(t, s.Add(contact("Bob Johnson", "555-555-5555", "bob.johnson@example.com")))

	matchO := recstore.AnyFieldContains[string]("o", "name", "phone", "email")
	got, err := s.Query(matchO, "name")
	require.NoError(t, err)

	// Every email ends in ".com", so all three contacts contain "o".
	assert.Equal(t, []string{"Bob Johnson", "Jane Smith", "John Doe"}, keysOf(got))

	got, err = s.Query(recstore.FieldContains[string]("name", "o"), "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob Johnson", "John Doe"}, keysOf(got))

	got, err = s.Query(recstore.AnyFieldContains[string]("555", "name", "phone", "email"), recstore.NoSort)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob Johnson"}, keysOf(got))
}

func TestQueryInvalidSortField(t *testing.T) {
	s := newInventory(t)
	before := s.Keys()

	results, err := s.Query(nil, "bogus")

	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, recstore.ErrInvalidQuery))
	var uf *recstore.UnknownFieldError
	require.ErrorAs(t, err, &uf)
	assert.Equal(t, recstore.Field("bogus"), uf.Field)

	assert.Equal(t, before, s.Keys())
	_, err = s.Query(nil, "price")
	assert.NoError(t, err)
}

func TestQueryInvalidArguments(t *testing.T) {
	s := newInventory(t)

	tests := []struct {
		name  string
		build func(*recstore.QueryBuilder[int64]) *recstore.QueryBuilder[int64]
	}{
		{"negative limit", func(q *recstore.QueryBuilder[int64]) *recstore.QueryBuilder[int64] { return q.Limit(-1) }},
		{"negative offset", func(q *recstore.QueryBuilder[int64]) *recstore.QueryBuilder[int64] { return q.Offset(-2) }},
		{"unknown metadata field", func(q *recstore.QueryBuilder[int64]) *recstore.QueryBuilder[int64] {
			return q.WithMetadata(metadata.NewFilterSet(metadata.Eq("colour", metadata.String("red"))))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(s.Find()).Execute()
			assert.ErrorIs(t, err, recstore.ErrInvalidQuery)
		})
	}
}

func TestQueryNoMatchIsEmpty(t *testing.T) {
	s := newInventory(t, recstore.WithIndexedFields("category"))

	got, err := s.Query(recstore.KeyEquals(int64(42)), "price")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = s.Find().WithMetadata(metadata.NewFilterSet(metadata.Eq("category", metadata.String("Toys")))).Execute()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryFindByID(t *testing.T) {
	s := newInventory(t)

	got, err := s.Query(recstore.KeyEquals(int64(2)), recstore.NoSort)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt"}, names(got))
}

func TestQueryUnsortedIsKeyOrdered(t *testing.T) {
	s := newInventory(t)

	got, err := s.Query(nil, recstore.NoSort)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, keysOf(got))

	got, err = s.Find().Desc().Execute()
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, keysOf(got))
}

func TestQueryTieBreakByKey(t *testing.T) {
	s := recstore.New[int64](itemSchema)
	require.NoError(t, s.AddBatch(
		item(5, "A", "Clothing", 1, 20),
		item(2, "B", "Clothing", 1, 20),
		item(9, "C", "Clothing", 1, 10),
		item(1, "D", "Clothing", 1, 20),
	))

	got, err := s.Query(nil, "price")
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 1, 2, 5}, keysOf(got))

	got, err = s.Find().SortBy("price").Desc().Execute()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5, 9}, keysOf(got))
}

func TestQueryOffsetLimit(t *testing.T) {
	s := newInventory(t)

	got, err := s.Find().SortBy("price").Offset(1).Limit(1).Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt"}, names(got))

	got, err = s.Find().Offset(10).Execute()
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Find().Limit(0).Execute()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryCombinedFilters(t *testing.T) {
	s := newInventory(t, recstore.WithIndexedFields("category"))
	require.NoError(t, s.Add(item(4, "Laptop", "Electronics", 2, 900)))
	require.NoError(t, s.Add(item(5, "Cable", "Electronics", 50, 5)))

	got, err := s.Find().
		WithMetadata(metadata.NewFilterSet(
			metadata.In("category", metadata.String("Electronics"), metadata.String("Groceries")),
			metadata.Lt("price", metadata.Int(950)),
		)).
		Where(recstore.Not(recstore.FieldContains[int64]("name", "Bread"))).
		SortBy("quantity").
		Desc().
		Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cable", "Laptop"}, names(got))
}

func TestQueryFirstCountExistsStream(t *testing.T) {
	s := newInventory(t)

	first, ok, err := s.Find().SortBy("quantity").Desc().First()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bread", first.StringField("name"))

	_, ok, err = s.Find().Where(recstore.KeyEquals(int64(99))).First()
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Find().Where(recstore.FieldContains[int64]("name", "r")).Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	exists, err := s.Find().Where(recstore.FieldEquals[int64]("price", metadata.Float(20))).Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	var streamed []string
	for r, err := range s.Find().SortBy("name").Stream() {
		require.NoError(t, err)
		streamed = append(streamed, r.StringField("name"))
	}
	assert.Equal(t, []string{"Bread", "Phone", "Shirt"}, streamed)

	for _, err := range s.Find().SortBy("bogus").Stream() {
		assert.ErrorIs(t, err, recstore.ErrInvalidQuery)
	}
}

func TestPredicateCombinators(t *testing.T) {
	s := newInventory(t)

	tests := []struct {
		name string
		pred recstore.Predicate[int64]
		want []string
	}{
		{"match all", recstore.MatchAll[int64](), []string{"Bread", "Phone", "Shirt"}},
		{"and", recstore.And(
			recstore.FieldContains[int64]("name", "h"),
			recstore.FieldEquals[int64]("category", metadata.String("Clothing")),
		), []string{"Shirt"}},
		{"and skips nil", recstore.And(nil, recstore.KeyEquals(int64(3))), []string{"Bread"}},
		{"or", recstore.Or(recstore.KeyEquals(int64(1)), recstore.KeyEquals(int64(3))), []string{"Bread", "Phone"}},
		{"or of nothing", recstore.Or[int64](), []string{}},
		{"not", recstore.Not(recstore.KeyEquals(int64(1))), []string{"Bread", "Shirt"}},
		{"filter set", recstore.FromFilterSet[int64](metadata.NewFilterSet(metadata.Gte("quantity", metadata.Int(5)))), []string{"Bread", "Phone"}},
		{"contains on int field", recstore.FieldContains[int64]("price", "1"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(tt.pred, "name")
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

// Property: every result satisfies the predicate and every stored record
// satisfying it appears exactly once.
func TestFilterCorrectnessProperty(t *testing.T) {
	rng := testutil.NewRNG(11)
	s := recstore.New[int64](itemSchema, recstore.WithIndexedFields("category", "price"))
	require.NoError(t, s.AddBatch(rng.Records(itemSchema, 400, 150)...))

	for i := 0; i < 25; i++ {
		needle := rng.String(1)
		price := metadata.Int(int64(rng.Intn(20)))
		pred := recstore.Or(
			recstore.FieldContains[int64]("name", needle),
			recstore.FieldEquals[int64]("price", price),
		)

		got, err := s.Query(pred, recstore.NoSort)
		require.NoError(t, err)

		seen := make(map[int64]int)
		for _, r := range got {
			assert.True(t, pred(r))
			seen[r.Key]++
		}
		for r := range s.All() {
			if pred(r) {
				assert.Equal(t, 1, seen[r.Key], "key %d", r.Key)
			} else {
				assert.Zero(t, seen[r.Key])
			}
		}

		indexed, err := s.Find().WithMetadata(metadata.NewFilterSet(metadata.Eq("price", price))).Execute()
		require.NoError(t, err)
		scanned, err := s.Query(recstore.FieldEquals[int64]("price", price), recstore.NoSort)
		require.NoError(t, err)
		assert.Equal(t, keysOf(scanned), keysOf(indexed))
	}
}

// Property: sorted results are non-decreasing in the field, with ties in
// ascending key order.
func TestSortCorrectnessProperty(t *testing.T) {
	rng := testutil.NewRNG(23)
	s := recstore.New[int64](itemSchema)
	require.NoError(t, s.AddBatch(rng.Records(itemSchema, 300, 200)...))

	for _, field := range []recstore.Field{"name", "category", "quantity", "price"} {
		got, err := s.Query(nil, field)
		require.NoError(t, err)
		require.Equal(t, s.Len(), len(got))

		for i := 1; i < len(got); i++ {
			prev, _ := got[i-1].Value(field)
			cur, _ := got[i].Value(field)
			c := metadata.Compare(prev, cur)
			require.LessOrEqual(t, c, 0, "field %s at %d", field, i)
			if c == 0 {
				require.Less(t, got[i-1].Key, got[i].Key)
			}
		}
	}
}
