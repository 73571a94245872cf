// Package photo implements the photo store port over gocloud.dev buckets.
// Local disk (file://) and in-memory (mem://) buckets are supported.
package photo

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"caltrack/internal/domain"
)

// Store holds food entry photos in a blob bucket.
type Store struct {
	bucket *blob.Bucket
}

var _ domain.PhotoStore = (*Store)(nil)

// OpenStore opens the bucket at bucketURL.
func OpenStore(ctx context.Context, bucketURL string) (*Store, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open photo bucket %q: %w", bucketURL, err)
	}
	return &Store{bucket: b}, nil
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Save writes the blob under key, overwriting any previous content.
func (s *Store) Save(ctx context.Context, key, contentType string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return &domain.StorageError{Op: "photos.save", Err: err}
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return &domain.StorageError{Op: "photos.save", Err: err}
	}
	if err := w.Close(); err != nil {
		return &domain.StorageError{Op: "photos.save", Err: err}
	}
	return nil
}

// Open returns a reader for the blob and its content type.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", &domain.StorageError{Op: "photos.open", Err: err}
	}
	return r, r.ContentType(), nil
}

// Delete removes the blob. Deleting an unknown key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return &domain.StorageError{Op: "photos.delete", Err: err}
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, &domain.StorageError{Op: "photos.exists", Err: err}
	}
	return ok, nil
}
