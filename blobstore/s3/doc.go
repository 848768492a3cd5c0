// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("training/run-42/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	engine := collection.NewEngine(collection.WithSpillStore(store))
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the S3 transfer manager
//   - CRC32C integrity checksums on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for per-run isolation
package s3
