package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"garagedesk/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudinaryStore implements FileStore on Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	logger *zap.Logger
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string, logger *zap.Logger) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, logger: logger.Named("storage")}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, in UploadInput) (*models.StoredFile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       in.Folder,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}

	s.logger.Debug("file uploaded", zap.String("publicId", res.PublicID), zap.Int("bytes", res.Bytes))
	return &models.StoredFile{
		Name:       filepath.Base(in.Filename),
		Kind:       in.Kind,
		URL:        res.SecureURL,
		PublicID:   res.PublicID,
		Format:     res.Format,
		Bytes:      res.Bytes,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected delete: %s", res.Error.Message)
	}
	return nil
}
