package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/storage"
	"github.com/google/uuid"
)

// MaxMediaSize caps a single upload at 10 MiB.
const MaxMediaSize int64 = 10 << 20

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type mediaService struct {
	store  storage.BlobStore
	logger *slog.Logger
}

func NewMediaService(store storage.BlobStore, logger *slog.Logger) MediaService {
	return &mediaService{store: store, logger: logger}
}

func (s *mediaService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*MediaObject, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := mediaTypes[ext]
	if !ok {
		return nil, ValidationErrors{{Field: "file", Message: "unsupported file type", Value: ext, Rule: "image"}}
	}
	if size <= 0 {
		return nil, ValidationErrors{{Field: "file", Message: "file is empty", Rule: "required"}}
	}
	if size > MaxMediaSize {
		return nil, ValidationErrors{{Field: "file", Message: "file exceeds 10MB", Value: size, Rule: "max"}}
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = expected
	}

	key := uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, io.LimitReader(r, MaxMediaSize), size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	s.logger.Info("Media stored", "key", key, "size", size, "content_type", contentType)
	return &MediaObject{Key: key, URL: url, ContentType: contentType, Size: size}, nil
}

func (s *mediaService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to open media: %w", err)
	}
	return rc, nil
}

// MediaContentType guesses the content type of a stored key from its extension.
func MediaContentType(key string) string {
	if ct, ok := mediaTypes[strings.ToLower(filepath.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}
