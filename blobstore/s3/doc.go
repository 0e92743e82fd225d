// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dumps/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	loader := seed.NewLoader(store, inventory.Key)
//
// # Features
//
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - Custom endpoints for S3-compatible services
package s3
