package storage

import (
	"context"
	"errors"
)

// ErrUploadsDisabled is returned by Disabled for every upload.
var ErrUploadsDisabled = errors.New("blob storage is not configured")

// BlobStore stores binary objects and returns a URL they can be fetched from.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Disabled is a BlobStore used when no object storage is configured.
type Disabled struct{}

// Upload always fails with ErrUploadsDisabled.
func (Disabled) Upload(context.Context, string, []byte, string) (string, error) {
	return "", ErrUploadsDisabled
}
