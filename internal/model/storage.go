package model

import (
	"context"
	"io"
)

// ObjectStorage streams binary objects to remote storage. URL resolves the
// public retrieval URL for an uploaded key.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
