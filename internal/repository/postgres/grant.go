package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/fileshare-server/internal/model"
)

var _ model.GrantStore = (*GrantRepository)(nil)

// GrantRepository is the grant ledger. Inserts select the file row filtered by
// owner so the ownership read and the insert happen in one statement.
type GrantRepository struct {
	db *Connection
}

func NewGrantRepository(db *Connection) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) CreateDirect(ctx context.Context, grant model.DirectGrant, granterID uuid.UUID) error {
	const query = `
        INSERT INTO grants (id, file_id, recipient_id, created_at)
        SELECT $1, f.id, $3, $4 FROM files f WHERE f.id = $2 AND f.owner_id = $5
    `

	tag, err := r.db.Exec(ctx, query, grant.ID, grant.FileID, grant.RecipientID, grant.CreatedAt, granterID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("recipient %s: %w", grant.RecipientID, model.ErrNotFound)
		}
		return fmt.Errorf("failed to create direct grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrForbidden
	}

	return nil
}

func (r *GrantRepository) CreateLink(ctx context.Context, grant model.LinkGrant, granterID uuid.UUID) error {
	const query = `
        INSERT INTO grants (id, file_id, link_token, created_at)
        SELECT $1, f.id, $3, $4 FROM files f WHERE f.id = $2 AND f.owner_id = $5
    `

	tag, err := r.db.Exec(ctx, query, grant.ID, grant.FileID, grant.Token, grant.CreatedAt, granterID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrLinkTokenTaken
		}
		return fmt.Errorf("failed to create link grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrForbidden
	}

	return nil
}

func (r *GrantRepository) HasDirect(ctx context.Context, fileID, recipientID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM grants WHERE file_id = $1 AND recipient_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, fileID, recipientID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check direct grant: %w", err)
	}

	return exists, nil
}

func (r *GrantRepository) GetLink(ctx context.Context, token string) (model.LinkGrant, error) {
	const query = `SELECT id, file_id, link_token, created_at FROM grants WHERE link_token = $1`

	var grant model.LinkGrant
	err := r.db.QueryRow(ctx, query, token).Scan(&grant.ID, &grant.FileID, &grant.Token, &grant.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LinkGrant{}, model.ErrNotFound
		}
		return model.LinkGrant{}, fmt.Errorf("failed to get link grant: %w", err)
	}

	return grant, nil
}
