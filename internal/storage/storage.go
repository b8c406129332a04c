package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"marketplace/internal/config"
)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	SaveImage(ctx context.Context, objectKey, contentType string, data []byte) (string, error)
}

// New picks the backend named by cfg.Driver.
func New(cfg config.ImageStoreConfig, log *zap.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "imgbb", "":
		return NewImgBBStorage(cfg.ImgBBEndpoint, cfg.ImgBBAPIKey, nil, log), nil
	case "minio":
		return NewMinioStorage(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported image store %q", cfg.Driver)
	}
}
