package domain

import (
	"context"
	"io"
)

// PhotoStore is the port for food entry photo blobs.
type PhotoStore interface {
	// Save writes the blob under key, overwriting any previous content.
	Save(ctx context.Context, key, contentType string, r io.Reader) error
	// Open returns a reader for the blob and its content type.
	// Returns ErrNotFound for an unknown key.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes the blob. Deleting an unknown key is a no-op.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
