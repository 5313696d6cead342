package service

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skyward/accountd/internal/apperr"
	"github.com/skyward/accountd/internal/model"
	"github.com/skyward/accountd/internal/repository"
	"github.com/skyward/accountd/internal/storage"
	"github.com/skyward/accountd/internal/validation"
)

// ImageService coordinates the object store and the images table so an
// account holds at most one profile image at any time.
type ImageService struct {
	imageRepository repository.ImageRepository
	storage         storage.Storage
	now             func() time.Time
}

func NewImageService(imageRepository repository.ImageRepository, storage storage.Storage) *ImageService {
	return &ImageService{
		imageRepository: imageRepository,
		storage:         storage,
		now:             time.Now,
	}
}

// Upload stores the blob first, then the metadata record. When the metadata
// write fails the just-written blob is deleted best-effort so no orphan
// survives a failed upload. There is no overwrite path: an account with an
// existing image must delete it first.
func (s *ImageService) Upload(userID string, data []byte, mimeType, originalName string) (*model.ImageView, error) {
	if err := validation.ValidateImage(data, mimeType); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if originalName == "" {
		return nil, apperr.Validation("file name is required")
	}

	// Fast path; the unique constraint on images.user_id decides races.
	_, err := s.imageRepository.ByUserID(userID)
	if err == nil {
		return nil, apperr.Conflict("user already has a profile image")
	}
	if !errors.Is(err, repository.ErrImageNotFound) {
		return nil, apperr.Upstream("image lookup", err)
	}

	key := fmt.Sprintf("user-%s-%s", userID, originalName)

	err = s.storage.Save(key, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, apperr.Upstream("object store write", err)
	}

	image := &model.Image{
		ID:         uuid.New().String(),
		UserID:     userID,
		FileName:   key,
		URL:        s.storage.URL(key),
		UploadDate: s.now(),
	}

	err = s.imageRepository.Create(image)
	if err != nil {
		s.compensateBlob(key, userID)
		if errors.Is(err, repository.ErrDuplicateImage) {
			return nil, apperr.Conflict("user already has a profile image")
		}
		return nil, apperr.Upstream("image record create", err)
	}

	slog.Info("profile image uploaded", "user_id", userID, "key", key)
	return image.View(), nil
}

func (s *ImageService) Get(userID string) (*model.ImageView, error) {
	image, err := s.imageRepository.ByUserID(userID)
	if errors.Is(err, repository.ErrImageNotFound) {
		return nil, apperr.NotFound("profile image not found")
	}
	if err != nil {
		return nil, apperr.Upstream("image lookup", err)
	}

	return image.View(), nil
}

// Delete removes the blob before the metadata record. If the blob delete
// fails the record is kept, so the account still owns the image state and
// the delete can be retried. The persisted file_name is the object key.
func (s *ImageService) Delete(userID string) error {
	image, err := s.imageRepository.ByUserID(userID)
	if errors.Is(err, repository.ErrImageNotFound) {
		return apperr.NotFound("profile image not found")
	}
	if err != nil {
		return apperr.Upstream("image lookup", err)
	}

	err = s.storage.Delete(image.FileName)
	if err != nil {
		return apperr.Upstream("object store delete", err)
	}

	err = s.imageRepository.Delete(image.ID)
	if errors.Is(err, repository.ErrImageNotFound) {
		// Concurrent delete already removed the record.
		return nil
	}
	if err != nil {
		return apperr.Upstream("image record delete", err)
	}

	slog.Info("profile image deleted", "user_id", userID, "key", image.FileName)
	return nil
}

// compensateBlob deletes a blob written by an upload whose metadata insert
// failed. Failure here is logged for operator follow-up, not propagated.
func (s *ImageService) compensateBlob(key, userID string) {
	err := s.storage.Delete(key)
	if err != nil {
		slog.Error("failed to delete orphaned blob after metadata failure", "error", err, "key", key, "user_id", userID)
	}
}
