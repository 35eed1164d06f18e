package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/fileshare-server/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

// FileRepository is the file registry.
type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `f.id, f.owner_id, f.stored_name, f.original_name, f.size, f.content_type, f.created_at`

func scanFile(row pgx.Row) (model.File, error) {
	var file model.File
	err := row.Scan(&file.ID, &file.OwnerID, &file.StoredName, &file.OriginalName,
		&file.Size, &file.ContentType, &file.CreatedAt)
	return file, err
}

func (r *FileRepository) Create(ctx context.Context, file model.File) (model.File, error) {
	query := `INSERT INTO files AS f (id, owner_id, stored_name, original_name, size, content_type, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + fileColumns

	saved, err := scanFile(r.db.QueryRow(ctx, query,
		file.ID, file.OwnerID, file.StoredName, file.OriginalName, file.Size, file.ContentType, file.CreatedAt,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.File{}, fmt.Errorf("owner %s: %w", file.OwnerID, model.ErrNotFound)
		}
		return model.File{}, fmt.Errorf("failed to create file: %w", err)
	}

	return saved, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files f WHERE f.id = $1`

	file, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get file by id: %w", err)
	}

	return file, nil
}

func (r *FileRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files f WHERE f.owner_id = $1 ORDER BY f.created_at DESC`

	return r.list(ctx, query, ownerID)
}

// GetSharedWith returns files reachable by recipientID through direct grants.
func (r *FileRepository) GetSharedWith(ctx context.Context, recipientID uuid.UUID) ([]model.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files f
			  WHERE EXISTS (SELECT 1 FROM grants g WHERE g.file_id = f.id AND g.recipient_id = $1)
			  ORDER BY f.created_at DESC`

	return r.list(ctx, query, recipientID)
}

func (r *FileRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]model.File, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := make([]model.File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}
