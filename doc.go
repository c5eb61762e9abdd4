// Package bucketx is a convenience client over S3-compatible object storage
// (AWS S3 / MinIO).
//
// It wraps an authenticated session with uniform operations for checking,
// listing, moving, and deleting remote objects, plus format-aware read/write
// of text, ordered YAML mappings, and typed tabular frames as xlsx, parquet,
// or csv. Paths are accepted with or without a leading separator and are
// normalized before every remote call.
//
//	cfg := bucketx.DefaultConfig()
//	cfg.Bucket = "reports"
//	cfg.AccessKey = accessKey
//	cfg.SecretKey = secretKey
//
//	client, err := bucketx.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.WriteFile(ctx, "hello", "notes/hello.txt"); err != nil {
//	    return err
//	}
//
// Every remote failure is translated into the package error taxonomy
// (ErrNotFound, ErrAuthentication, ErrFormat, ErrTimeout) wrapped in a
// *StorageError carrying the operation and path; use errors.Is or the
// helper predicates to check. The client performs no retry of its own
// beyond the SDK's configured retryer, and no caching.
package bucketx
