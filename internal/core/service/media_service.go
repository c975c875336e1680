package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

const (
	DefaultMaxImageBytes = 5 << 20
	mediaFolder          = "restaurant-menu"
)

// MediaService is the media upload adapter. Payloads are checked before any call to the host.
type MediaService struct {
	store    ports.MediaStore
	maxBytes int64
	logger   zerolog.Logger
}

func NewMediaService(store ports.MediaStore, maxBytes int64, logger zerolog.Logger) *MediaService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &MediaService{store: store, maxBytes: maxBytes, logger: logger}
}

// UploadImage stores an image under the owner's folder and returns its public URL.
func (s *MediaService) UploadImage(ctx context.Context, ownerID string, in ports.ImageUpload) (string, error) {
	if ownerID == "" {
		return "", domain.ErrUnauthorized
	}
	data, err := s.readImage(in)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	mt := mimetype.Detect(data)
	key := fmt.Sprintf("%s/%s/%s%s", mediaFolder, ownerID, uuid.New().String(), mt.Extension())
	url, err := s.store.Upload(ctx, ports.MediaObject{
		Key:         key,
		ContentType: mt.String(),
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("owner_id", ownerID).Str("key", key).Msg("image upload failed")
		return "", fmt.Errorf("upload image: %w", domain.ErrBackendUnavailable)
	}

	metrics.MediaUploadsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("owner_id", ownerID).Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return url, nil
}

func (s *MediaService) readImage(in ports.ImageUpload) ([]byte, error) {
	if !isImageType(in.ContentType) {
		return nil, domain.Invalid("file", "must be an image")
	}
	if in.Size > s.maxBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}
	if in.Body == nil {
		return nil, domain.Invalid("file", "is required")
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, domain.Invalid("file", "could not be read")
	}
	switch {
	case len(data) == 0:
		return nil, domain.Invalid("file", "is empty")
	case int64(len(data)) > s.maxBytes:
		return nil, domain.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}
	if !isImageType(mimetype.Detect(data).String()) {
		return nil, domain.Invalid("file", "content is not an image")
	}
	return data, nil
}

// DeleteImage removes an image the owner uploaded earlier. It never fails the caller.
func (s *MediaService) DeleteImage(ctx context.Context, ownerID, url string) {
	log := s.logger.With().Str("owner_id", ownerID).Str("url", url).Logger()

	key, ok := s.store.ObjectKey(url)
	if !ok {
		log.Warn().Msg("image delete skipped: url is not hosted here")
		return
	}
	if !strings.HasPrefix(key, mediaFolder+"/"+ownerID+"/") {
		log.Warn().Str("key", key).Msg("image delete skipped: object belongs to another owner")
		return
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("image delete failed")
		return
	}
	log.Info().Str("key", key).Msg("image deleted")
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
