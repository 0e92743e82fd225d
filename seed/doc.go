// Package seed loads record dumps from a blobstore into a store.
//
// A dump is either a JSON array of flat objects or JSON Lines (one object
// per line). Blobs ending in ".zst" are zstd streams and blobs ending in
// ".lz4" are lz4 frames; anything else is read as is.
//
//	loader := seed.NewLoader(blobstore.NewLocalStore("./dumps"), seed.IntKey("id"))
//	n, err := loader.Load(ctx, store, "items.jsonl.zst", "extra.json")
//
// Objects are coerced to the store schema, so JSON numbers become Int
// values for Int fields. The key attribute is removed from the fields
// unless the schema declares it.
package seed
