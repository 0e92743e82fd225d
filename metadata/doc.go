// Package metadata provides the typed field model of recstore records.
//
// # Values
//
// Field values can be:
//
//   - String: metadata.String("Phone")
//   - Int: metadata.Int(1000)
//   - Float: metadata.Float(3.14)
//   - Bool: metadata.Bool(true)
//   - Array: metadata.Array([]metadata.Value{...})
//
// Example:
//
//	doc := metadata.Document{
//	    "name":     metadata.String("Phone"),
//	    "category": metadata.String("Electronics"),
//	    "price":    metadata.Int(1000),
//	}
//
// # Schemas
//
// A Schema fixes the field set of a record type. Validate rejects missing,
// undeclared and mistyped fields; Coerce turns decoded JSON into a typed
// Document.
//
// # Filters
//
// Declarative conditions combine into a FilterSet (AND logic):
//
//	fs := metadata.NewFilterSet(
//	    metadata.Eq("category", metadata.String("Electronics")),
//	    metadata.Lt("price", metadata.Int(500)),
//	)
//
// Equality and `in` conditions on indexed fields are answered by Index,
// a Roaring Bitmap inverted index.
//
// # Ordering
//
// Compare defines the natural order used for sorting query results.
package metadata
