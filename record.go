package recstore

import (
	"cmp"

	"github.com/hupe1980/recstore/metadata"
)

// Field names a record field, e.g. for sorting. Record-type packages declare
// their fields as typed constants.
type Field string

// NoSort leaves query results unsorted.
const NoSort Field = ""

// String returns the field name.
func (f Field) String() string { return string(f) }

// Record is one stored entity: a unique key plus its fields.
type Record[K cmp.Ordered] struct {
	Key    K
	Fields metadata.Document
}

// NewRecord creates a record. The fields are not copied; the store copies
// on Add.
func NewRecord[K cmp.Ordered](key K, fields metadata.Document) Record[K] {
	return Record[K]{Key: key, Fields: fields}
}

// Value returns the value of field f.
func (r Record[K]) Value(f Field) (metadata.Value, bool) {
	v, ok := r.Fields[string(f)]
	return v, ok
}

// StringField returns the string value of field f, or "" if it is absent or not a string.
func (r Record[K]) StringField(f Field) string {
	return r.Fields[string(f)].StringValue()
}

// IntField returns the integer value of field f.
func (r Record[K]) IntField(f Field) (int64, bool) {
	return r.Fields[string(f)].AsInt64()
}

// Clone returns a deep copy of the record.
func (r Record[K]) Clone() Record[K] {
	return Record[K]{Key: r.Key, Fields: r.Fields.Clone()}
}

// Equal reports whether both records have the same key and equal fields.
func (r Record[K]) Equal(other Record[K]) bool {
	return r.Key == other.Key && r.Fields.Equal(other.Fields)
}
