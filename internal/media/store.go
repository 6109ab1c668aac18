// Package media accepts operator uploads of hero images and background
// music and removes files that are no longer referenced.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/storage"
)

// BlobStore stores public assets on behalf of operators.
type BlobStore interface {
	Upload(ctx context.Context, owner uuid.UUID, folder, filename, contentType string, body io.Reader, size int64) (string, error)
	RemoveAs(ctx context.Context, caller uuid.UUID, role models.Role, publicURL string) error
}

// objectStore is the subset of *storage.S3 used here.
type objectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectKeyFromURL(url string) (string, bool)
}

// S3Store is the BlobStore backed by the asset bucket.
type S3Store struct {
	objects objectStore
	logger  *zap.Logger
}

// NewS3Store wraps an S3 client.
func NewS3Store(objects *storage.S3, logger *zap.Logger) *S3Store {
	return newS3Store(objects, logger)
}

func newS3Store(objects objectStore, logger *zap.Logger) *S3Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Store{objects: objects, logger: logger}
}

// Check validates an upload before anything is sent: the size ceiling, then
// the folder and file type. It returns the content type to store with.
func Check(folder, filename, contentType string, size int64) (string, string, error) {
	if size > storage.MaxAssetSize {
		return "", "", apperrors.NewValidationError("file", fmt.Sprintf("must be at most %d MB", storage.MaxAssetSize/(1024*1024)))
	}
	if size <= 0 {
		return "", "", apperrors.NewValidationError("file", "is empty")
	}
	if _, ok := storage.AllowedTypes[folder]; !ok {
		return "", "", apperrors.NewValidationError("folder", "must be images or audio")
	}
	ct, ext, ok := storage.ValidateFileType(folder, contentType, filename)
	if !ok {
		return "", "", apperrors.NewValidationError("file", "file type is not allowed in "+folder)
	}
	return ct, ext, nil
}

// Upload validates and stores the file under owner, returning its public URL.
func (s *S3Store) Upload(ctx context.Context, owner uuid.UUID, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	ct, ext, err := Check(folder, filename, contentType, size)
	if err != nil {
		return "", err
	}
	key := storage.AssetKey(folder, owner, ext)
	url, err := s.objects.Upload(ctx, key, ct, io.LimitReader(body, storage.MaxAssetSize), size)
	if err != nil {
		return "", apperrors.NewPersistenceError("upload asset", err)
	}
	s.logger.Info("asset uploaded", zap.String("key", key), zap.Int64("size", size))
	return url, nil
}

// RemoveAs deletes publicURL for an operator. Only the uploader or an
// admin may remove a file; unscoped keys are admin only.
func (s *S3Store) RemoveAs(ctx context.Context, caller uuid.UUID, role models.Role, publicURL string) error {
	key, ok := s.objects.ObjectKeyFromURL(publicURL)
	if !ok {
		return apperrors.NewValidationError("url", "is not a stored asset")
	}
	owner, scoped := storage.KeyOwner(key)
	if !scoped && role != models.RoleAdmin || scoped && !role.CanManage(caller, owner) {
		s.logger.Warn("asset removal refused", zap.String("key", key), zap.String("caller", caller.String()))
		return apperrors.NewForbiddenError("asset")
	}
	return s.remove(ctx, key)
}

// Remove deletes the object behind publicURL without an ownership check.
// The cleanup worker uses it for files no invitation references. URLs that
// do not point into the bucket are rejected.
func (s *S3Store) Remove(ctx context.Context, publicURL string) error {
	key, ok := s.objects.ObjectKeyFromURL(publicURL)
	if !ok {
		return apperrors.NewValidationError("url", "is not a stored asset")
	}
	return s.remove(ctx, key)
}

func (s *S3Store) remove(ctx context.Context, key string) error {
	if err := s.objects.DeleteObject(ctx, key); err != nil {
		return apperrors.NewPersistenceError("delete asset", err)
	}
	s.logger.Info("asset removed", zap.String("key", key))
	return nil
}
