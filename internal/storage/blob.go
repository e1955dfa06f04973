package storage

import (
	"context"
	"io"
)

// BlobStore is the remote object storage collaborator. Upload and PublicURL
// are separate calls; nothing is rolled back if the second one fails.
type BlobStore interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) // returns stored path
	PublicURL(bucket, path string) (string, error)
	Get(ctx context.Context, bucket, path string) (io.ReadCloser, error)
}
