package recstore

import (
	"cmp"
	"strings"

	"github.com/hupe1980/recstore/metadata"
)

// Predicate is a caller-supplied test over a record, used to filter query
// results. Predicates receive a copy of the record.
type Predicate[K cmp.Ordered] func(Record[K]) bool

// MatchAll returns a predicate that keeps every record.
func MatchAll[K cmp.Ordered]() Predicate[K] {
	return func(Record[K]) bool { return true }
}

// And holds when every non-nil predicate holds.
func And[K cmp.Ordered](preds ...Predicate[K]) Predicate[K] {
	return func(r Record[K]) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Or holds when at least one non-nil predicate holds.
func Or[K cmp.Ordered](preds ...Predicate[K]) Predicate[K] {
	return func(r Record[K]) bool {
		for _, p := range preds {
			if p != nil && p(r) {
				return true
			}
		}
		return false
	}
}

// Not negates p.
func Not[K cmp.Ordered](p Predicate[K]) Predicate[K] {
	return func(r Record[K]) bool { return !p(r) }
}

// KeyEquals holds for the record stored under k.
func KeyEquals[K cmp.Ordered](k K) Predicate[K] {
	return func(r Record[K]) bool { return r.Key == k }
}

// FieldEquals holds when field f equals v (numbers compare numerically).
func FieldEquals[K cmp.Ordered](f Field, v metadata.Value) Predicate[K] {
	return func(r Record[K]) bool {
		got, ok := r.Fields[string(f)]
		return ok && got.Equal(v)
	}
}

// FieldContains holds when string field f contains substr.
func FieldContains[K cmp.Ordered](f Field, substr string) Predicate[K] {
	return func(r Record[K]) bool {
		s, ok := r.Fields[string(f)].AsString()
		return ok && strings.Contains(s, substr)
	}
}

// AnyFieldContains holds when at least one of the string fields contains
// substr.
func AnyFieldContains[K cmp.Ordered](substr string, fields ...Field) Predicate[K] {
	preds := make([]Predicate[K], len(fields))
	for i, f := range fields {
		preds[i] = FieldContains[K](f, substr)
	}
	return Or(preds...)
}

// FromFilterSet adapts a declarative filter set to a predicate.
func FromFilterSet[K cmp.Ordered](fs *metadata.FilterSet) Predicate[K] {
	return func(r Record[K]) bool { return fs.Matches(r.Fields) }
}
