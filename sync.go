package recstore

import (
	"cmp"
	"sync"

	"github.com/hupe1980/recstore/metadata"
)

// Synchronized guards a Store with a read/write mutex for callers that
// share one store between goroutines. Writes are exclusive; reads and
// queries run concurrently.
type Synchronized[K cmp.Ordered] struct {
	mu    sync.RWMutex
	store *Store[K]
}

// NewSynchronized wraps s. The caller must not use s directly afterwards.
func NewSynchronized[K cmp.Ordered](s *Store[K]) *Synchronized[K] {
	return &Synchronized[K]{store: s}
}

// Add is the synchronized form of Store.Add.
func (ss *Synchronized[K]) Add(r Record[K]) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.store.Add(r)
}

// AddBatch is the synchronized form of Store.AddBatch.
func (ss *Synchronized[K]) AddBatch(records ...Record[K]) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.store.AddBatch(records...)
}

// Remove is the synchronized form of Store.Remove.
func (ss *Synchronized[K]) Remove(k K) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.store.Remove(k)
}

// Clear is the synchronized form of Store.Clear.
func (ss *Synchronized[K]) Clear() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.store.Clear()
}

// Get is the synchronized form of Store.Get.
func (ss *Synchronized[K]) Get(k K) (Record[K], bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Get(k)
}

// Contains is the synchronized form of Store.Contains.
func (ss *Synchronized[K]) Contains(k K) bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Contains(k)
}

// Len is the synchronized form of Store.Len.
func (ss *Synchronized[K]) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Len()
}

// Keys is the synchronized form of Store.Keys.
func (ss *Synchronized[K]) Keys() []K {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Keys()
}

// Schema is the synchronized form of Store.Schema.
func (ss *Synchronized[K]) Schema() metadata.Schema {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Schema()
}

// Query is the synchronized form of Store.Query.
func (ss *Synchronized[K]) Query(filter Predicate[K], sortBy Field) ([]Record[K], error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.store.Query(filter, sortBy)
}

// Find configures a query with build and executes it under the read lock.
func (ss *Synchronized[K]) Find(build func(*QueryBuilder[K]) *QueryBuilder[K]) ([]Record[K], error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return build(ss.store.Find()).Execute()
}
