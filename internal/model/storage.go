package model

import (
	"context"
	"io"
)

// ObjectStorage stores listing images and avatars in an external object
// store. Upload returns the public URL of the stored object; the key is an
// opaque identifier used for later deletion.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
