// Package recstore provides an in-memory keyed record store with a query
// pipeline.
//
// A Store holds records of one shape, fixed by a metadata.Schema, under
// unique keys of any ordered type. It supports insertion (last write wins),
// removal, point lookup and queries that filter and then sort.
//
// # Quick Start
//
//	schema := metadata.Schema{
//	    "name":     metadata.FieldTypeString,
//	    "category": metadata.FieldTypeString,
//	    "price":    metadata.FieldTypeInt,
//	}
//	store := recstore.New[int64](schema, recstore.WithIndexedFields("category"))
//
//	_ = store.Add(recstore.NewRecord(int64(1), metadata.Document{
//	    "name":     metadata.String("Phone"),
//	    "category": metadata.String("Electronics"),
//	    "price":    metadata.Int(1000),
//	}))
//
//	rec, ok := store.Get(1)
//	removed := store.Remove(1)
//
// # Queries
//
// Query takes an optional predicate and an optional sort field:
//
//	cheapFirst, err := store.Query(nil, "price")
//
// Find exposes the full pipeline as a fluent builder:
//
//	results, err := store.Find().
//	    WithMetadata(metadata.NewFilterSet(metadata.Eq("category", metadata.String("Electronics")))).
//	    SortBy("price").
//	    Desc().
//	    Limit(5).
//	    Execute()
//
// Sorting uses the natural order of the field (numbers numerically, strings
// lexicographically) and breaks ties by ascending key. Sorting or filtering
// on a field the schema does not declare returns an error satisfying
// errors.Is(err, ErrInvalidQuery). An empty match is an empty result.
//
// # Ownership
//
// Add copies the record's fields in; Get, All and queries return copies.
// Results are snapshots and never alias store state.
//
// # Concurrency
//
// Store is not safe for concurrent use. NewSynchronized wraps a store with
// a read/write mutex.
package recstore
