package service

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/storage"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize = 5 << 20

// ImageService validates uploads and hands them to the configured store.
type ImageService interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type imageService struct {
	store storage.ImageStore
	log   *zap.Logger
}

// NewImageService creates a new image service.
func NewImageService(store storage.ImageStore, log *zap.Logger) ImageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &imageService{store: store, log: log}
}

// Upload sniffs the content type, rejects anything that is not an image or is too
// large, and returns the stored image URL.
func (s *imageService) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("image", "The image field is required.")
	}
	if len(data) > MaxImageSize {
		return "", apperrors.NewValidationError("image", "The image field must not be greater than 5120 kilobytes.")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", apperrors.NewValidationError("image", "The image field must be an image.")
	}

	objectKey := uuid.NewString() + mtype.Extension()
	url, err := s.store.SaveImage(ctx, objectKey, mtype.String(), data)
	if err != nil {
		s.log.Error("image upload failed", zap.String("object", objectKey), zap.Error(err))
		return "", apperrors.ErrImageUploadFailed
	}
	return url, nil
}
