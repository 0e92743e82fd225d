// Package contacts is an address book on top of a record store, keyed by
// contact name.
package contacts

import (
	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/metadata"
	"github.com/hupe1980/recstore/seed"
)

// Contact fields.
const (
	FieldName  recstore.Field = "name"
	FieldPhone recstore.Field = "phone"
	FieldEmail recstore.Field = "email"
)

// Schema is the record layout of a contact.
var Schema = metadata.Schema{
	string(FieldName):  metadata.FieldTypeString,
	string(FieldPhone): metadata.FieldTypeString,
	string(FieldEmail): metadata.FieldTypeString,
}

// Key reads contact keys from dumps.
var Key = seed.StringKey(string(FieldName))

// Contact is one address book entry.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Record converts the contact to a store record keyed by name.
func (c Contact) Record() recstore.Record[string] {
	return recstore.NewRecord(c.Name, metadata.Document{
		string(FieldName):  metadata.String(c.Name),
		string(FieldPhone): metadata.String(c.Phone),
		string(FieldEmail): metadata.String(c.Email),
	})
}

func fromRecord(r recstore.Record[string]) Contact {
	return Contact{
		Name:  r.Key,
		Phone: r.StringField(FieldPhone),
		Email: r.StringField(FieldEmail),
	}
}

// Book holds contacts keyed by name.
type Book struct {
	store *recstore.Store[string]
}

// NewBook creates an empty address book.
func NewBook(opts ...recstore.Option) *Book {
	return &Book{store: recstore.New[string](Schema, opts...)}
}

// AddContact stores c, replacing a contact with the same name.
func (b *Book) AddContact(c Contact) error {
	return b.store.Add(c.Record())
}

// RemoveContact deletes the contact called name and reports whether it
// existed.
func (b *Book) RemoveContact(name string) bool {
	return b.store.Remove(name)
}

// SearchContact looks a contact up by exact name.
func (b *Book) SearchContact(name string) (Contact, bool) {
	r, ok := b.store.Get(name)
	if !ok {
		return Contact{}, false
	}
	return fromRecord(r), true
}

// ListContacts returns the contacts whose name, phone or email contains
// filterBy, sorted by sortBy. An empty filterBy keeps every contact and
// recstore.NoSort orders by name.
func (b *Book) ListContacts(sortBy recstore.Field, filterBy string) ([]Contact, error) {
	var filter recstore.Predicate[string]
	if filterBy != "" {
		filter = recstore.AnyFieldContains[string](filterBy, FieldName, FieldPhone, FieldEmail)
	}

	records, err := b.store.Query(filter, sortBy)
	if err != nil {
		return nil, err
	}

	out := make([]Contact, len(records))
	for i, r := range records {
		out[i] = fromRecord(r)
	}
	return out, nil
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	return b.store.Len()
}

// Store exposes the underlying record store, e.g. for seeding.
func (b *Book) Store() *recstore.Store[string] {
	return b.store
}
