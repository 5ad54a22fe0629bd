package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"garagedesk/models"
)

// MaxUploadBytes caps a single uploaded file.
const MaxUploadBytes = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload limit")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// FileStore keeps client documents and vehicle photos.
type FileStore interface {
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*models.StoredFile, error)
	Delete(ctx context.Context, publicID string) error
}

// UploadInput describes one file. Folder is relative to the store root.
type UploadInput struct {
	Folder   string
	Filename string
	Kind     string
	Size     int64
}

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true,
	".pdf": true,
}

// imageOnly lists kinds that must be pictures.
var imageOnly = map[string]bool{"photo": true}

// Validate checks size and extension before anything is sent to the store.
func (in UploadInput) Validate() error {
	if in.Size > MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, in.Size)
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if imageOnly[in.Kind] && ext == ".pdf" {
		return fmt.Errorf("%w: %s must be an image", ErrUnsupportedFile, in.Kind)
	}
	return nil
}

// OwnerFolder namespaces uploads per garage account.
func OwnerFolder(ownerID string, parts ...string) string {
	return strings.Join(append([]string{"garages", ownerID}, parts...), "/")
}
