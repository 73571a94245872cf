package app

import (
	"context"
	"io"

	"github.com/google/uuid"

	"caltrack/internal/domain"
)

// PhotoService manages food entry photo blobs behind the PhotoStore port.
type PhotoService struct {
	store domain.PhotoStore
}

// NewPhotoService creates a PhotoService over the given store.
func NewPhotoService(store domain.PhotoStore) *PhotoService {
	return &PhotoService{store: store}
}

// Upload is the handle handed to a client before it sends photo bytes.
type Upload struct {
	PhotoID   string `json:"photoId"`
	UploadURL string `json:"uploadUrl"`
}

// NewUpload mints a fresh photo key and the URL to PUT the bytes to.
func (s *PhotoService) NewUpload() Upload {
	id := uuid.NewString()
	return Upload{PhotoID: id, UploadURL: "/api/photos/upload/" + id}
}

// Save stores the uploaded bytes under the minted key.
func (s *PhotoService) Save(ctx context.Context, photoID, contentType string, r io.Reader) error {
	if err := uuid.Validate(photoID); err != nil {
		return domain.NewValidationError("photoId", "must be a UUID")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.store.Save(ctx, photoID, contentType, r)
}

// Open returns the stored photo bytes and content type.
func (s *PhotoService) Open(ctx context.Context, photoID string) (io.ReadCloser, string, error) {
	return s.store.Open(ctx, photoID)
}

// Delete removes the stored photo. Unknown keys are a no-op.
func (s *PhotoService) Delete(ctx context.Context, photoID string) error {
	return s.store.Delete(ctx, photoID)
}

// URL returns the serving path for a stored photo, or "" when the entry has
// no photo.
func (s *PhotoService) URL(photoID string) string {
	if photoID == "" {
		return ""
	}
	return "/api/photos/" + photoID
}
