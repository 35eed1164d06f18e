package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// DefaultContentType is stored when the client does not declare one.
const DefaultContentType = "application/octet-stream"

// FileStore defines persistence operations for file metadata.
type FileStore interface {
	Create(ctx context.Context, file File) (File, error)
	GetByID(ctx context.Context, id uuid.UUID) (File, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]File, error)
	GetSharedWith(ctx context.Context, recipientID uuid.UUID) ([]File, error)
}

// File represents metadata of an uploaded artifact. Records are immutable
// once created and the owner never changes.
type File struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordFileParams contains metadata for an artifact whose bytes are already stored.
type RecordFileParams struct {
	OwnerID      uuid.UUID
	StoredName   string
	OriginalName string
	Size         int64
	ContentType  string
}

// UploadParams contains an artifact to store and record.
type UploadParams struct {
	OwnerID      uuid.UUID
	OriginalName string
	Size         int64
	ContentType  string
	Body         io.Reader
}
