package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GrantStore persists sharing relationships. Create operations insert only
// when the file is owned by the granter at insert time and return
// ErrForbidden otherwise.
type GrantStore interface {
	CreateDirect(ctx context.Context, grant DirectGrant, granterID uuid.UUID) error
	CreateLink(ctx context.Context, grant LinkGrant, granterID uuid.UUID) error
	HasDirect(ctx context.Context, fileID, recipientID uuid.UUID) (bool, error)
	GetLink(ctx context.Context, token string) (LinkGrant, error)
}

// DirectGrant extends access to one named recipient.
type DirectGrant struct {
	ID          uuid.UUID
	FileID      uuid.UUID
	RecipientID uuid.UUID
	CreatedAt   time.Time
}

// LinkGrant extends access to anyone presenting Token.
type LinkGrant struct {
	ID        uuid.UUID
	FileID    uuid.UUID
	Token     string
	CreatedAt time.Time
}

// Link is returned to the owner after a link grant is created.
type Link struct {
	FileID uuid.UUID `json:"file_id"`
	Token  string    `json:"token"`
	URL    string    `json:"link"`
}
