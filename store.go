package recstore

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/recstore/metadata"
)

// Store is an in-memory collection of homogeneous records keyed by K.
//
// Records are validated against the schema on Add and copied in; Get and
// queries return deep copies, so callers can never mutate the store through
// a returned record.
//
// Store has no locking. Wrap it with NewSynchronized when it is shared
// between goroutines.
type Store[K cmp.Ordered] struct {
	schema  metadata.Schema
	records map[K]entry

	// Row IDs address records in the inverted index.
	rows     map[uint32]K
	nextRow  uint32
	freeRows []uint32
	index    *metadata.Index

	metrics MetricsCollector
}

type entry struct {
	fields metadata.Document
	row    uint32
}

// New creates an empty store for records conforming to schema.
//
// The schema fixes the field set: every record must carry exactly the
// declared fields, and only declared fields can be sorted or filtered on.
func New[K cmp.Ordered](schema metadata.Schema, optFns ...Option) *Store[K] {
	opts := options{metricsCollector: NoopMetricsCollector{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Store[K]{
		schema:  maps.Clone(schema),
		records: make(map[K]entry),
		rows:    make(map[uint32]K),
		metrics: opts.metricsCollector,
	}
	if s.schema == nil {
		s.schema = metadata.Schema{}
	}

	var indexed []string
	for _, f := range opts.indexedFields {
		if s.schema.Has(string(f)) && !slices.Contains(indexed, string(f)) {
			indexed = append(indexed, string(f))
		}
	}
	if len(indexed) > 0 {
		s.index = metadata.NewIndex(indexed...)
	}
	return s
}

// Schema returns a copy of the store schema.
func (s *Store[K]) Schema() metadata.Schema {
	return maps.Clone(s.schema)
}

// Add inserts r under r.Key. An existing record with the same key is
// replaced (last write wins); use Contains or Get first for insert-only
// semantics.
//
// Add returns a *SchemaViolationError when r does not conform to the schema;
// the store is left unchanged in that case.
func (s *Store[K]) Add(r Record[K]) error {
	start := time.Now()
	err := s.validate(r)
	if err == nil {
		s.put(r)
	}
	s.metrics.RecordAdd(time.Since(start), err)
	return err
}

// AddBatch validates every record and then inserts all of them in order.
// If any record is invalid nothing is inserted and the joined violations
// are returned.
func (s *Store[K]) AddBatch(records ...Record[K]) error {
	start := time.Now()

	var errs []error
	for _, r := range records {
		if err := s.validate(r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		for _, r := range records {
			s.put(r)
		}
	}

	s.metrics.RecordBatchAdd(len(records), len(errs), time.Since(start))
	return errors.Join(errs...)
}

// Remove deletes the record with key k. It reports whether a record was
// removed; removing an absent key is a no-op.
func (s *Store[K]) Remove(k K) bool {
	start := time.Now()
	e, ok := s.records[k]
	if ok {
		delete(s.records, k)
		s.releaseRow(e)
	}
	s.metrics.RecordRemove(time.Since(start), ok)
	return ok
}

// Get returns a copy of the record stored under k.
func (s *Store[K]) Get(k K) (Record[K], bool) {
	start := time.Now()
	e, ok := s.records[k]
	s.metrics.RecordGet(time.Since(start), ok)
	if !ok {
		return Record[K]{}, false
	}
	return Record[K]{Key: k, Fields: e.fields.Clone()}, true
}

// Contains reports whether a record is stored under k.
func (s *Store[K]) Contains(k K) bool {
	_, ok := s.records[k]
	return ok
}

// Len returns the number of stored records.
func (s *Store[K]) Len() int {
	return len(s.records)
}

// Keys returns all keys in ascending order.
func (s *Store[K]) Keys() []K {
	return slices.Sorted(maps.Keys(s.records))
}

// All iterates over copies of all records in ascending key order.
func (s *Store[K]) All() iter.Seq[Record[K]] {
	return func(yield func(Record[K]) bool) {
		for _, k := range s.Keys() {
			e, ok := s.records[k]
			if !ok {
				continue
			}
			if !yield(Record[K]{Key: k, Fields: e.fields.Clone()}) {
				return
			}
		}
	}
}

// Clear removes all records.
func (s *Store[K]) Clear() {
	clear(s.records)
	clear(s.rows)
	s.nextRow = 0
	s.freeRows = s.freeRows[:0]
	if s.index != nil {
		s.index.Reset()
	}
}

// Query runs the filter then sort pipeline. A nil filter keeps every
// record; NoSort returns records in ascending key order. Sorting uses the
// natural order of the field (see metadata.Compare) with ties broken by
// ascending key.
//
// Query fails with an error satisfying errors.Is(err, ErrInvalidQuery) when
// sortBy is not a schema field. No match is an empty result, not an error.
func (s *Store[K]) Query(filter Predicate[K], sortBy Field) ([]Record[K], error) {
	return s.Find().Where(filter).SortBy(sortBy).Execute()
}

func (s *Store[K]) validate(r Record[K]) error {
	if err := s.schema.Validate(r.Fields); err != nil {
		v := &SchemaViolationError{Key: r.Key, cause: err}
		var fe *metadata.FieldError
		if errors.As(err, &fe) {
			v.Field, v.Reason = fe.Field, fe.Reason
		}
		return v
	}
	return nil
}

func (s *Store[K]) put(r Record[K]) {
	fields := r.Fields.Clone()
	if fields == nil {
		fields = metadata.Document{}
	}

	e, exists := s.records[r.Key]
	if exists {
		if s.index != nil {
			s.index.Remove(e.row, e.fields)
		}
	} else {
		e.row = s.allocRow()
		s.rows[e.row] = r.Key
	}
	e.fields = fields
	s.records[r.Key] = e

	if s.index != nil {
		s.index.Add(e.row, fields)
	}
}

func (s *Store[K]) allocRow() uint32 {
	if n := len(s.freeRows); n > 0 {
		row := s.freeRows[n-1]
		s.freeRows = s.freeRows[:n-1]
		return row
	}
	row := s.nextRow
	s.nextRow++
	return row
}

func (s *Store[K]) releaseRow(e entry) {
	if s.index != nil {
		s.index.Remove(e.row, e.fields)
	}
	delete(s.rows, e.row)
	s.freeRows = append(s.freeRows, e.row)
}
