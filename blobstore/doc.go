// Package blobstore provides read access to record dumps wherever they live.
//
// BlobStore is the interface the seed loader reads from.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system
//   - MemoryStore: in-process blobs, for tests and embedded dumps
//   - s3.Store: Amazon S3 (or any endpoint speaking the S3 API)
//   - minio.Store: MinIO and other S3-compatible storage via minio-go
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
