package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/metadata"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 -.@"

// String returns a random string of length n over a small alphabet.
// Short strings make substring filters and sort ties likely.
func (r *RNG) String(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Value returns a random value of type t. Values are drawn from narrow
// ranges so that duplicates occur.
func (r *RNG) Value(t metadata.FieldType) metadata.Value {
	switch t {
	case metadata.FieldTypeInt:
		return metadata.Int(int64(r.Intn(20)))
	case metadata.FieldTypeFloat:
		return metadata.Float(float64(r.Intn(40)) / 4)
	case metadata.FieldTypeBool:
		return metadata.Bool(r.Intn(2) == 1)
	case metadata.FieldTypeArray:
		return metadata.Array([]metadata.Value{metadata.Int(int64(r.Intn(3)))})
	default:
		return metadata.String(r.String(1 + r.Intn(3)))
	}
}

// Document returns a random document conforming to schema.
func (r *RNG) Document(schema metadata.Schema) metadata.Document {
	doc := make(metadata.Document, len(schema))
	for _, field := range schema.Fields() {
		doc[field] = r.Value(schema[field])
	}
	return doc
}

// Records returns n random records with int64 keys drawn from [0, keySpace).
// Keys repeat when n > keySpace, exercising last-write-wins.
func (r *RNG) Records(schema metadata.Schema, n, keySpace int) []recstore.Record[int64] {
	out := make([]recstore.Record[int64], n)
	for i := range out {
		out[i] = recstore.NewRecord(int64(r.Intn(keySpace)), r.Document(schema))
	}
	return out
}
