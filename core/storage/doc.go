// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface, supporting both AWS S3
// and self-hosted MinIO. The directory service uses it to read spreadsheet uploads that
// were dropped into a bucket and to persist audit events for completed syncs.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the target bucket (EnsureBucket).
//   - PutObject: uploads content (with size and options).
//   - GetObject: retrieves content as a stream.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, "ffl")
package storage
