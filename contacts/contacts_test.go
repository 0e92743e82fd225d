package contacts

import (
	"testing"

	"github.com/hupe1980/recstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b := NewBook()
	require.NoError(t, b.AddContact(Contact{Name: "John Doe", Phone: "123-456-7890", Email: "john.doe@example.com"}))
	require.NoError(t, b.AddContact(Contact{Name: "Jane Smith", Phone: "987-654-3210", Email: "jane.smith@example.com"}))
	require.NoError(t, b.AddContact(Contact{Name: "Bob Johnson", Phone: "555-555-5555", Email: "bob.johnson@example.com"}))
	return b
}

func names(cs []Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestListContacts(t *testing.T) {
	b := newTestBook(t)

	tests := []struct {
		name   string
		sortBy recstore.Field
		filter string
		want   []string
	}{
		{"sorted by name", FieldName, "", []string{"Bob Johnson", "Jane Smith", "John Doe"}},
		{"sorted by phone", FieldPhone, "", []string{"John Doe", "Bob Johnson", "Jane Smith"}},
		{"filter o matches every email", FieldName, "o", []string{"Bob Johnson", "Jane Smith", "John Doe"}},
		{"filter on phone", recstore.NoSort, "555", []string{"Bob Johnson"}},
		{"filter on name", FieldEmail, "Jo", []string{"Bob Johnson", "John Doe"}},
		{"no match", FieldName, "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.ListContacts(tt.sortBy, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestListContactsInvalidSort(t *testing.T) {
	b := newTestBook(t)

	_, err := b.ListContacts("age", "")
	assert.ErrorIs(t, err, recstore.ErrInvalidQuery)
	assert.Equal(t, 3, b.Len())
}

func TestSearchAndRemove(t *testing.T) {
	b := newTestBook(t)

	c, ok := b.SearchContact("Jane Smith")
	require.True(t, ok)
	assert.Equal(t, "987-654-3210", c.Phone)

	assert.True(t, b.RemoveContact("Jane Smith"))
	assert.False(t, b.RemoveContact("Jane Smith"))
	_, ok = b.SearchContact("Jane Smith")
	assert.False(t, ok)

	require.NoError(t, b.AddContact(Contact{Name: "John Doe", Phone: "000", Email: "jd@example.org"}))
	c, _ = b.SearchContact("John Doe")
	assert.Equal(t, "000", c.Phone)
	assert.Equal(t, 2, b.Len())
}
