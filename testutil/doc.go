// Package testutil provides testing utilities for recstore.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and generators for random
// schema-conforming documents and records.
//
//	rng := testutil.NewRNG(seed)
//	doc := rng.Document(schema)
//	records := rng.Records(schema, 1000, 100)
package testutil
