package blobstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Download when no object exists under the key.
var ErrNotFound = errors.New("blobstore: object not found")

type Store interface {
	// Upload stores body under key and returns the full storage key
	// (folder prefix included).
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SignedDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
