package recstore

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/recstore/metadata"
)

// Find creates a fluent query builder.
//
// Example:
//
//	items, err := store.Find().
//	    WithMetadata(metadata.NewFilterSet(metadata.Eq("category", metadata.String("Electronics")))).
//	    Where(recstore.FieldContains[int64]("name", "Pho")).
//	    SortBy("price").
//	    Desc().
//	    Limit(10).
//	    Execute()
//
// Stages run in a fixed order: filter (metadata, then predicates), sort,
// offset, limit.
func (s *Store[K]) Find() *QueryBuilder[K] {
	return &QueryBuilder[K]{s: s}
}

// QueryBuilder is a fluent builder for constructing queries.
type QueryBuilder[K cmp.Ordered] struct {
	s *Store[K]

	preds   []Predicate[K]
	filters *metadata.FilterSet

	sortBy Field
	desc   bool

	offset   int
	limit    int
	hasLimit bool
}

// Where adds a predicate. Multiple predicates must all hold; nil is ignored.
func (qb *QueryBuilder[K]) Where(p Predicate[K]) *QueryBuilder[K] {
	if p != nil {
		qb.preds = append(qb.preds, p)
	}
	return qb
}

// WithMetadata adds declarative filters. Equality and `in` conditions on
// indexed fields narrow the candidates through the inverted index; all
// other conditions are checked per record.
func (qb *QueryBuilder[K]) WithMetadata(filters *metadata.FilterSet) *QueryBuilder[K] {
	if filters.IsEmpty() {
		return qb
	}
	if qb.filters == nil {
		qb.filters = metadata.NewFilterSet()
	}
	qb.filters.Filters = append(qb.filters.Filters, filters.Filters...)
	return qb
}

// SortBy orders results by field f. NoSort restores ascending key order.
func (qb *QueryBuilder[K]) SortBy(f Field) *QueryBuilder[K] {
	qb.sortBy = f
	return qb
}

// Desc reverses the sort order of the field. Records with equal field values
// stay in ascending key order.
func (qb *QueryBuilder[K]) Desc() *QueryBuilder[K] {
	qb.desc = true
	return qb
}

// Offset skips the first n results.
func (qb *QueryBuilder[K]) Offset(n int) *QueryBuilder[K] {
	qb.offset = n
	return qb
}

// Limit caps the number of results.
func (qb *QueryBuilder[K]) Limit(n int) *QueryBuilder[K] {
	qb.limit = n
	qb.hasLimit = true
	return qb
}

// Execute runs the query and returns a snapshot of the matching records.
func (qb *QueryBuilder[K]) Execute() ([]Record[K], error) {
	start := time.Now()
	results, err := qb.execute()
	qb.s.metrics.RecordQuery(len(results), time.Since(start), err)
	return results, err
}

// Stream returns an iterator over the query results. On error it yields a
// single zero record with the error.
func (qb *QueryBuilder[K]) Stream() iter.Seq2[Record[K], error] {
	return func(yield func(Record[K], error) bool) {
		results, err := qb.Execute()
		if err != nil {
			yield(Record[K]{}, err)
			return
		}
		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// First returns the first result. ok is false when nothing matched.
func (qb *QueryBuilder[K]) First() (rec Record[K], ok bool, err error) {
	limited := *qb
	limited.limit, limited.hasLimit = 1, true

	results, err := limited.Execute()
	if err != nil || len(results) == 0 {
		return Record[K]{}, false, err
	}
	return results[0], true, nil
}

// Count executes the query and returns the number of results.
func (qb *QueryBuilder[K]) Count() (int, error) {
	results, err := qb.Execute()
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// Exists checks if at least one record matches the query.
func (qb *QueryBuilder[K]) Exists() (bool, error) {
	_, ok, err := qb.First()
	return ok, err
}

func (qb *QueryBuilder[K]) validate() error {
	if qb.sortBy != NoSort && !qb.s.schema.Has(string(qb.sortBy)) {
		return &UnknownFieldError{Field: qb.sortBy}
	}
	for _, key := range qb.filters.Keys() {
		if !qb.s.schema.Has(key) {
			return &UnknownFieldError{Field: Field(key)}
		}
	}
	if qb.offset < 0 {
		return &InvalidArgumentError{Name: "offset", Value: qb.offset}
	}
	if qb.hasLimit && qb.limit < 0 {
		return &InvalidArgumentError{Name: "limit", Value: qb.limit}
	}
	return nil
}

func (qb *QueryBuilder[K]) execute() ([]Record[K], error) {
	if err := qb.validate(); err != nil {
		return nil, err
	}

	var results []Record[K]
	for k, e := range qb.candidates() {
		if !qb.filters.Matches(e.fields) {
			continue
		}
		r := Record[K]{Key: k, Fields: e.fields.Clone()}
		if qb.matches(r) {
			results = append(results, r)
		}
	}

	slices.SortFunc(results, qb.compare)

	if qb.offset >= len(results) {
		return []Record[K]{}, nil
	}
	results = results[qb.offset:]
	if qb.hasLimit && qb.limit < len(results) {
		results = results[:qb.limit]
	}
	return results, nil
}

// candidates yields the records that can possibly match, using the inverted
// index when a filter allows it.
func (qb *QueryBuilder[K]) candidates() iter.Seq2[K, entry] {
	s := qb.s
	if s.index != nil {
		if bm, ok := s.index.Candidates(qb.filters); ok {
			return func(yield func(K, entry) bool) {
				it := bm.Iterator()
				for it.HasNext() {
					k, ok := s.rows[it.Next()]
					if !ok {
						continue
					}
					if !yield(k, s.records[k]) {
						return
					}
				}
			}
		}
	}
	return func(yield func(K, entry) bool) {
		for k, e := range s.records {
			if !yield(k, e) {
				return
			}
		}
	}
}

func (qb *QueryBuilder[K]) matches(r Record[K]) bool {
	for _, p := range qb.preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func (qb *QueryBuilder[K]) compare(a, b Record[K]) int {
	if qb.sortBy != NoSort {
		f := string(qb.sortBy)
		c := metadata.Compare(a.Fields[f], b.Fields[f])
		if qb.desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	}
	if qb.desc {
		return cmp.Compare(b.Key, a.Key)
	}
	return cmp.Compare(a.Key, b.Key)
}
