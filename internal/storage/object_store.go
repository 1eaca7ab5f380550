package storage

import (
	"context"
	"io"
)

// ObjectStore holds the raw bytes of uploaded attachments. The entity store
// only keeps the object key (File.FilePath); it never reads blob content.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data io.Reader) error

	// GetObject returns a reader over the stored bytes. The caller closes it.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}
