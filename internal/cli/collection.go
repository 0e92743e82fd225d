package cli

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/blobstore"
	"github.com/hupe1980/recstore/codec"
	"github.com/hupe1980/recstore/contacts"
	"github.com/hupe1980/recstore/inventory"
	"github.com/hupe1980/recstore/metadata"
	"github.com/hupe1980/recstore/seed"
)

// Row is a record of any collection.
type Row struct {
	Key    any
	Fields metadata.Document
}

// Condition is an equality test parsed from field=value.
type Condition struct {
	Field string
	Value string
}

// Query describes one CLI query.
type Query struct {
	Match string // substring over all string fields
	Where []Condition
	Sort  recstore.Field
	Desc  bool
	Limit int // 0 means unlimited
}

// Collection is a record store the CLI can drive without knowing its key
// type.
type Collection interface {
	Name() string
	KeyField() string
	Schema() metadata.Schema
	Len() int
	Load(ctx context.Context, blobs blobstore.BlobStore, c codec.Codec, names ...string) (int, error)
	Add(fields map[string]string) (string, error)
	Get(key string) (Row, bool, error)
	Remove(key string) (bool, error)
	Query(q Query) ([]Row, error)
}

// collections maps collection names to constructors.
var collections = map[string]func(opts ...recstore.Option) Collection{
	"inventory": newInventoryCollection,
	"contacts":  newContactsCollection,
}

// NewCollection creates the named collection.
func NewCollection(name string, opts ...recstore.Option) (Collection, error) {
	mk, ok := collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return mk(opts...), nil
}

func newInventoryCollection(opts ...recstore.Option) Collection {
	return &collection[int64]{
		name:  "inventory",
		store: inventory.New(opts...).Store(),
		key:   inventory.Key,
		parseKey: func(s string) (int64, error) {
			return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		},
		check: func(doc metadata.Document) error {
			for _, f := range []recstore.Field{inventory.FieldQuantity, inventory.FieldPrice} {
				if n, ok := doc[string(f)].AsInt64(); ok && n < 0 {
					return fmt.Errorf("%w: negative %s", inventory.ErrInvalidItem, f)
				}
			}
			return nil
		},
		normalize: func(doc metadata.Document) error {
			v, ok := doc[string(inventory.FieldCategory)]
			if !ok {
				return nil
			}
			c, err := inventory.ParseCategory(v.StringValue())
			if err != nil {
				return err
			}
			doc[string(inventory.FieldCategory)] = metadata.String(c.String())
			return nil
		},
	}
}

func newContactsCollection(opts ...recstore.Option) Collection {
	return &collection[string]{
		name:     "contacts",
		store:    contacts.NewBook(opts...).Store(),
		key:      contacts.Key,
		parseKey: func(s string) (string, error) { return s, nil },
	}
}

type collection[K cmp.Ordered] struct {
	name     string
	store    *recstore.Store[K]
	key      seed.KeyField[K]
	parseKey func(string) (K, error)

	// normalize rewrites field values into their stored form. It runs on
	// added records, loaded records and where values, and must accept
	// partial documents.
	normalize func(metadata.Document) error
	// check rejects records that normalize accepted but the collection
	// does not store.
	check func(metadata.Document) error
}

func (c *collection[K]) Name() string            { return c.name }
func (c *collection[K]) KeyField() string        { return c.key.Name }
func (c *collection[K]) Schema() metadata.Schema { return c.store.Schema() }
func (c *collection[K]) Len() int                { return c.store.Len() }

func (c *collection[K]) Load(ctx context.Context, blobs blobstore.BlobStore, cd codec.Codec, names ...string) (int, error) {
	return seed.NewLoader(blobs, c.key, seed.WithCodec(cd)).Load(ctx, loadTarget[K]{c}, names...)
}

// prepare normalizes and checks one record in place.
func (c *collection[K]) prepare(doc metadata.Document) error {
	if c.normalize != nil {
		if err := c.normalize(doc); err != nil {
			return err
		}
	}
	if c.check != nil {
		return c.check(doc)
	}
	return nil
}

// loadTarget prepares decoded records before they reach the store.
type loadTarget[K cmp.Ordered] struct {
	c *collection[K]
}

func (t loadTarget[K]) Schema() metadata.Schema { return t.c.store.Schema() }

func (t loadTarget[K]) AddBatch(records ...recstore.Record[K]) error {
	for _, r := range records {
		if err := t.c.prepare(r.Fields); err != nil {
			return fmt.Errorf("record %v: %w", r.Key, err)
		}
	}
	return t.c.store.AddBatch(records...)
}

// Add parses field=value input by the schema types and stores the record.
// It returns the key of the stored record.
func (c *collection[K]) Add(fields map[string]string) (string, error) {
	rawKey, ok := fields[c.key.Name]
	if !ok {
		return "", fmt.Errorf("missing key field %q", c.key.Name)
	}
	key, err := c.parseKey(rawKey)
	if err != nil {
		return "", fmt.Errorf("key %q: %w", c.key.Name, err)
	}

	schema := c.store.Schema()
	doc := make(metadata.Document, len(fields))
	for name, raw := range fields {
		if name == c.key.Name && !schema.Has(name) {
			continue
		}
		t, ok := schema[name]
		if !ok {
			return "", fmt.Errorf("unknown field %q", name)
		}
		v, err := ParseValue(t, raw)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", name, err)
		}
		doc[name] = v
	}

	if err := c.prepare(doc); err != nil {
		return "", err
	}

	if err := c.store.Add(recstore.NewRecord(key, doc)); err != nil {
		return "", err
	}
	return fmt.Sprint(key), nil
}

func (c *collection[K]) Get(key string) (Row, bool, error) {
	k, err := c.parseKey(key)
	if err != nil {
		return Row{}, false, err
	}
	r, ok := c.store.Get(k)
	if !ok {
		return Row{}, false, nil
	}
	return toRow(r), true, nil
}

func (c *collection[K]) Remove(key string) (bool, error) {
	k, err := c.parseKey(key)
	if err != nil {
		return false, err
	}
	return c.store.Remove(k), nil
}

func (c *collection[K]) Query(q Query) ([]Row, error) {
	schema := c.store.Schema()
	qb := c.store.Find().SortBy(q.Sort)

	if q.Match != "" {
		var fields []recstore.Field
		for _, f := range schema.Fields() {
			if schema[f] == metadata.FieldTypeString {
				fields = append(fields, recstore.Field(f))
			}
		}
		qb.Where(recstore.AnyFieldContains[K](q.Match, fields...))
	}

	if len(q.Where) > 0 {
		fs := metadata.NewFilterSet()
		for _, cond := range q.Where {
			t, ok := schema[cond.Field]
			if !ok {
				return nil, &recstore.UnknownFieldError{Field: recstore.Field(cond.Field)}
			}
			v, err := ParseValue(t, cond.Value)
			if err != nil {
				return nil, fmt.Errorf("where %s: %w", cond.Field, err)
			}
			if c.normalize != nil {
				doc := metadata.Document{cond.Field: v}
				if err := c.normalize(doc); err != nil {
					return nil, fmt.Errorf("where %s: %w", cond.Field, err)
				}
				v = doc[cond.Field]
			}
			fs.Filters = append(fs.Filters, metadata.Eq(cond.Field, v))
		}
		qb.WithMetadata(fs)
	}

	if q.Desc {
		qb.Desc()
	}
	if q.Limit > 0 {
		qb.Limit(q.Limit)
	}

	records, err := qb.Execute()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}
	return rows, nil
}

func toRow[K cmp.Ordered](r recstore.Record[K]) Row {
	return Row{Key: r.Key, Fields: r.Fields}
}

// ParseValue converts command-line text to a value of type t.
func ParseValue(t metadata.FieldType, s string) (metadata.Value, error) {
	switch t {
	case metadata.FieldTypeInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return metadata.Value{}, fmt.Errorf("%q is not an integer", s)
		}
		return metadata.Int(i), nil
	case metadata.FieldTypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return metadata.Value{}, fmt.Errorf("%q is not a number", s)
		}
		return metadata.Float(f), nil
	case metadata.FieldTypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return metadata.Value{}, fmt.Errorf("%q is not a boolean", s)
		}
		return metadata.Bool(b), nil
	default:
		return metadata.String(s), nil
	}
}

// ParseAssignments splits field=value arguments.
func ParseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		out[field] = value
	}
	return out, nil
}

// ParseConditions parses --where arguments.
func ParseConditions(args []string) ([]Condition, error) {
	conds := make([]Condition, 0, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		conds = append(conds, Condition{Field: field, Value: value})
	}
	return conds, nil
}
