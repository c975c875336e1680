package ports

import (
	"context"
	"io"
)

// MediaObject is an image ready to be sent to the media host.
type MediaObject struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaStore is the external image host.
type MediaStore interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, obj MediaObject) (string, error)
	// ObjectKey maps a public URL back to the object key. ok is false for foreign URLs.
	ObjectKey(url string) (key string, ok bool)
	Delete(ctx context.Context, key string) error
}
