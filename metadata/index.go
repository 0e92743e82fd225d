package metadata

import (
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an inverted index over selected fields: field -> value -> row IDs.
//
// Posting lists are Roaring Bitmaps, so equality and `in` conditions on
// indexed fields resolve to bitmap unions and intersections instead of a
// scan. Int and integral Float values share a posting list, matching the
// exact numeric equality used by Filter.Matches, also beyond 2^53.
//
// Index is not safe for concurrent mutation.
type Index struct {
	fields   map[string]struct{}
	inverted map[string]map[string]*roaring.Bitmap
}

// NewIndex creates an index over the given fields.
func NewIndex(fields ...string) *Index {
	idx := &Index{
		fields:   make(map[string]struct{}, len(fields)),
		inverted: make(map[string]map[string]*roaring.Bitmap, len(fields)),
	}
	for _, f := range fields {
		idx.fields[f] = struct{}{}
		idx.inverted[f] = make(map[string]*roaring.Bitmap)
	}
	return idx
}

// Indexed reports whether the field has posting lists.
func (idx *Index) Indexed(field string) bool {
	_, ok := idx.fields[field]
	return ok
}

// Add indexes doc under row id.
func (idx *Index) Add(id uint32, doc Document) {
	for field := range idx.fields {
		v, ok := doc[field]
		if !ok {
			continue
		}
		key := postingKey(v)
		valueMap := idx.inverted[field]
		bitmap, ok := valueMap[key]
		if !ok {
			bitmap = roaring.New()
			valueMap[key] = bitmap
		}
		bitmap.Add(id)
	}
}

// Remove drops row id from the posting lists of doc.
func (idx *Index) Remove(id uint32, doc Document) {
	for field := range idx.fields {
		v, ok := doc[field]
		if !ok {
			continue
		}
		key := postingKey(v)
		valueMap := idx.inverted[field]
		bitmap, ok := valueMap[key]
		if !ok {
			continue
		}
		bitmap.Remove(id)
		if bitmap.IsEmpty() {
			delete(valueMap, key)
		}
	}
}

// Reset drops every posting list.
func (idx *Index) Reset() {
	for field := range idx.fields {
		idx.inverted[field] = make(map[string]*roaring.Bitmap)
	}
}

// Cardinality returns the number of rows holding value in field.
func (idx *Index) Cardinality(field string, v Value) uint64 {
	bitmap, ok := idx.inverted[field][postingKey(v)]
	if !ok {
		return 0
	}
	return bitmap.GetCardinality()
}

// Candidates resolves the indexable filters of fs into a bitmap of row IDs.
//
// ok is false when no filter in fs can use the index; the caller must scan.
// The bitmap is a superset filter only in the sense that non-indexable
// conditions in fs still have to be evaluated per row.
func (idx *Index) Candidates(fs *FilterSet) (result *roaring.Bitmap, ok bool) {
	if fs.IsEmpty() {
		return nil, false
	}
	for i := range fs.Filters {
		f := &fs.Filters[i]
		if !f.Indexable() || !idx.Indexed(f.Key) {
			continue
		}
		bm := idx.lookup(f)
		if result == nil {
			result = bm
		} else {
			result.And(bm)
		}
		ok = true
		if result.IsEmpty() {
			break
		}
	}
	return result, ok
}

// lookup returns a fresh bitmap for an indexable filter.
func (idx *Index) lookup(f *Filter) *roaring.Bitmap {
	valueMap := idx.inverted[f.Key]
	if f.Operator == OpIn {
		lists := make([]*roaring.Bitmap, 0, len(f.Value.A))
		for _, v := range f.Value.A {
			if bm, ok := valueMap[postingKey(v)]; ok {
				lists = append(lists, bm)
			}
		}
		if len(lists) == 0 {
			return roaring.New()
		}
		return roaring.FastOr(lists...)
	}
	if bm, ok := valueMap[postingKey(f.Value)]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

// postingKey normalizes integral floats onto the Int key space.
func postingKey(v Value) string {
	switch v.Kind {
	case KindFloat:
		if n, ok := Int64FromFloat(v.F64); ok {
			return "i:" + strconv.FormatInt(n, 10)
		}
	case KindArray:
		parts := make([]Value, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i]
			if p := v.A[i]; p.Kind == KindFloat {
				if n, ok := Int64FromFloat(p.F64); ok {
					parts[i] = Int(n)
				}
			}
		}
		return Array(parts).Key()
	}
	return v.Key()
}
