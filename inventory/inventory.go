// Package inventory keeps stock items in a record store, indexed by
// category.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/metadata"
	"github.com/hupe1980/recstore/seed"
)

// Category groups items.
type Category int

const (
	// Electronics such as phones and laptops.
	Electronics Category = iota + 1
	// Groceries such as bread.
	Groceries
	// Clothing such as shirts.
	Clothing
)

var categoryNames = map[Category]string{
	Electronics: "Electronics",
	Groceries:   "Groceries",
	Clothing:    "Clothing",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ErrUnknownCategory is returned when a category name cannot be parsed.
var ErrUnknownCategory = errors.New("unknown category")

// ErrInvalidItem is returned for items with a negative quantity or price.
var ErrInvalidItem = errors.New("invalid item")

// ParseCategory accepts a category name (case-insensitive) or its menu
// number "1", "2" or "3".
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "1":
		return Electronics, nil
	case "2":
		return Groceries, nil
	case "3":
		return Clothing, nil
	}
	for c, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Item fields.
const (
	FieldName     recstore.Field = "name"
	FieldCategory recstore.Field = "category"
	FieldQuantity recstore.Field = "quantity"
	FieldPrice    recstore.Field = "price"
)

// FieldID is the dump attribute holding the item key.
const FieldID = "id"

// Schema is the record layout of an item. The ID is the record key.
var Schema = metadata.Schema{
	string(FieldName):     metadata.FieldTypeString,
	string(FieldCategory): metadata.FieldTypeString,
	string(FieldQuantity): metadata.FieldTypeInt,
	string(FieldPrice):    metadata.FieldTypeInt,
}

// Key reads item keys from dumps.
var Key = seed.IntKey(FieldID)

// Item is one stock position.
type Item struct {
	ID       int64
	Name     string
	Category Category
	Quantity int64
	Price    int64
}

// Record converts the item to a store record.
func (it Item) Record() recstore.Record[int64] {
	return recstore.NewRecord(it.ID, metadata.Document{
		string(FieldName):     metadata.String(it.Name),
		string(FieldCategory): metadata.String(it.Category.String()),
		string(FieldQuantity): metadata.Int(it.Quantity),
		string(FieldPrice):    metadata.Int(it.Price),
	})
}

// ItemFromRecord converts a store record back to an item.
func ItemFromRecord(r recstore.Record[int64]) (Item, error) {
	c, err := ParseCategory(r.StringField(FieldCategory))
	if err != nil {
		return Item{}, fmt.Errorf("item %d: %w", r.Key, err)
	}
	qty, _ := r.IntField(FieldQuantity)
	price, _ := r.IntField(FieldPrice)
	return Item{
		ID:       r.Key,
		Name:     r.StringField(FieldName),
		Category: c,
		Quantity: qty,
		Price:    price,
	}, nil
}

// Inventory is a collection of items keyed by ID.
type Inventory struct {
	store *recstore.Store[int64]
}

// New creates an empty inventory. The category field is always indexed.
func New(opts ...recstore.Option) *Inventory {
	opts = append(opts, recstore.WithIndexedFields(FieldCategory))
	return &Inventory{store: recstore.New[int64](Schema, opts...)}
}

// AddItem stores it, replacing any item with the same ID.
func (inv *Inventory) AddItem(it Item) error {
	if it.Quantity < 0 || it.Price < 0 {
		return fmt.Errorf("%w: item %d has negative quantity or price", ErrInvalidItem, it.ID)
	}
	if _, ok := categoryNames[it.Category]; !ok {
		return fmt.Errorf("%w: item %d: %w", ErrInvalidItem, it.ID, ErrUnknownCategory)
	}
	return inv.store.Add(it.Record())
}

// RemoveItem deletes the item with id and reports whether it existed.
func (inv *Inventory) RemoveItem(id int64) bool {
	return inv.store.Remove(id)
}

// FindItemByID returns the item with id.
func (inv *Inventory) FindItemByID(id int64) (Item, bool) {
	r, ok := inv.store.Get(id)
	if !ok {
		return Item{}, false
	}
	it, err := ItemFromRecord(r)
	return it, err == nil
}

// FindItemsByCategory returns the items of category c in ascending ID order.
func (inv *Inventory) FindItemsByCategory(c Category) ([]Item, error) {
	records, err := inv.store.Find().
		WithMetadata(metadata.NewFilterSet(metadata.Eq(string(FieldCategory), metadata.String(c.String())))).
		Execute()
	if err != nil {
		return nil, err
	}
	return itemsFromRecords(records)
}

// ListItems returns all items sorted by sortBy, or by ID for
// recstore.NoSort.
func (inv *Inventory) ListItems(sortBy recstore.Field) ([]Item, error) {
	records, err := inv.store.Query(nil, sortBy)
	if err != nil {
		return nil, err
	}
	return itemsFromRecords(records)
}

// TotalValue sums quantity times price over all items.
func (inv *Inventory) TotalValue() int64 {
	var total int64
	for r := range inv.store.All() {
		qty, _ := r.IntField(FieldQuantity)
		price, _ := r.IntField(FieldPrice)
		total += qty * price
	}
	return total
}

// Len returns the number of items.
func (inv *Inventory) Len() int {
	return inv.store.Len()
}

// Store exposes the underlying record store, e.g. for seeding.
func (inv *Inventory) Store() *recstore.Store[int64] {
	return inv.store
}

func itemsFromRecords(records []recstore.Record[int64]) ([]Item, error) {
	items := make([]Item, len(records))
	for i, r := range records {
		it, err := ItemFromRecord(r)
		if err != nil {
			return nil, err
		}
		items[i] = it
	}
	return items, nil
}
