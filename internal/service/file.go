package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// File is the file registry: it stores uploaded bytes in the blob store and
// records their metadata.
type File struct {
	fileStore model.FileStore
	blobStore model.BlobStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewFile(fileStore model.FileStore, blobStore model.BlobStore, logger *logger.Logger) *File {
	return &File{
		fileStore: fileStore,
		blobStore: blobStore,
		logger:    logger,
		now:       time.Now,
	}
}

// StoredName builds the blob key for a new file of owner.
func StoredName(ownerID, fileID uuid.UUID) string {
	return fmt.Sprintf("user-%s/file-%s", ownerID, fileID)
}

// Record inserts metadata for bytes already held by the blob store.
// Name and content type are stored as given.
func (s *File) Record(ctx context.Context, params model.RecordFileParams) (model.File, error) {
	return s.record(ctx, uuid.New(), params)
}

func (s *File) record(ctx context.Context, id uuid.UUID, params model.RecordFileParams) (model.File, error) {
	switch {
	case params.OwnerID == uuid.Nil:
		return model.File{}, fmt.Errorf("%w: owner is required", model.ErrValidation)
	case params.StoredName == "":
		return model.File{}, fmt.Errorf("%w: stored name is required", model.ErrValidation)
	case strings.TrimSpace(params.OriginalName) == "":
		return model.File{}, fmt.Errorf("%w: file name is required", model.ErrValidation)
	case params.Size < 0:
		return model.File{}, fmt.Errorf("%w: size must not be negative", model.ErrValidation)
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = model.DefaultContentType
	}

	file, err := s.fileStore.Create(ctx, model.File{
		ID:           id,
		OwnerID:      params.OwnerID,
		StoredName:   params.StoredName,
		OriginalName: params.OriginalName,
		Size:         params.Size,
		ContentType:  contentType,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Error("File service: failed to record file",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.File{}, fmt.Errorf("failed to record file: %w", err)
	}

	return file, nil
}

// Upload writes the body to the blob store and records it. The blob is
// removed again if the metadata cannot be stored.
func (s *File) Upload(ctx context.Context, params model.UploadParams) (model.File, error) {
	if params.Body == nil {
		return model.File{}, fmt.Errorf("%w: file is required", model.ErrValidation)
	}
	if strings.TrimSpace(params.OriginalName) == "" {
		return model.File{}, fmt.Errorf("%w: file name is required", model.ErrValidation)
	}

	id := uuid.New()
	key := StoredName(params.OwnerID, id)

	contentType := params.ContentType
	if contentType == "" {
		contentType = model.DefaultContentType
	}

	if err := s.blobStore.Upload(ctx, key, params.Body, params.Size, contentType); err != nil {
		s.logger.Error("File service: failed to upload blob",
			"owner_id", params.OwnerID,
			"key", key,
			"error", err.Error())
		return model.File{}, fmt.Errorf("failed to upload file: %w", err)
	}

	file, err := s.record(ctx, id, model.RecordFileParams{
		OwnerID:      params.OwnerID,
		StoredName:   key,
		OriginalName: params.OriginalName,
		Size:         params.Size,
		ContentType:  contentType,
	})
	if err != nil {
		if delErr := s.blobStore.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Error("File service: failed to roll back blob",
				"key", key,
				"error", delErr.Error())
		}
		return model.File{}, err
	}

	s.logger.Info("File service: file uploaded",
		"file_id", file.ID,
		"owner_id", file.OwnerID,
		"size", file.Size)

	return file, nil
}

// ListOwnedBy returns the files owned by userID.
func (s *File) ListOwnedBy(ctx context.Context, userID uuid.UUID) ([]model.File, error) {
	files, err := s.fileStore.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// ListSharedWith returns the files other users granted to userID.
func (s *File) ListSharedWith(ctx context.Context, userID uuid.UUID) ([]model.File, error) {
	files, err := s.fileStore.GetSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared files: %w", err)
	}
	return files, nil
}

func (s *File) Get(ctx context.Context, fileID uuid.UUID) (model.File, error) {
	file, err := s.fileStore.GetByID(ctx, fileID)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}
