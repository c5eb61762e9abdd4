// Package testutil provides test doubles for bucketx: an in-memory
// S3-compatible server and a capturing logger.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"

	"github.com/gostratum/bucketx"
)

// NewServer starts an in-memory S3 server with the given buckets created and
// returns its endpoint URL. The server is shut down when the test finishes.
func NewServer(tb testing.TB, buckets ...string) string {
	tb.Helper()

	backend := s3mem.New()
	for _, bucket := range buckets {
		if err := backend.CreateBucket(bucket); err != nil {
			tb.Fatalf("create bucket %q: %v", bucket, err)
		}
	}

	server := httptest.NewServer(gofakes3.New(backend).Server())
	tb.Cleanup(server.Close)
	return server.URL
}

// NewConfig returns a client configuration pointed at a fake server endpoint
func NewConfig(endpoint, bucket string) *bucketx.Config {
	cfg := bucketx.DefaultConfig()
	cfg.Bucket = bucket
	cfg.Endpoint = endpoint
	cfg.UsePathStyle = true
	cfg.AccessKey = "test-access-key"
	cfg.SecretKey = "test-secret-key"
	cfg.DisableSSL = true
	return cfg
}
