package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// Access decides whether a requester may read a file.
//
// There are two paths. The direct path allows the owner and every recipient
// of a direct grant. The link path allows anyone presenting a link token,
// with no identity check at all: holding the link is the authorization.
// That path is weaker by construction and must be treated as public.
//
// Denials never tell the caller whether the file exists.
type Access struct {
	fileStore  model.FileStore
	grantStore model.GrantStore
	blobStore  model.BlobStore
	recorder   Recorder
	logger     *logger.Logger
}

func NewAccess(
	fileStore model.FileStore,
	grantStore model.GrantStore,
	blobStore model.BlobStore,
	recorder Recorder,
	logger *logger.Logger,
) *Access {
	return &Access{
		fileStore:  fileStore,
		grantStore: grantStore,
		blobStore:  blobStore,
		recorder:   recorderOrNoop(recorder),
		logger:     logger,
	}
}

// CanAccess reports whether requesterID owns fileID or holds a direct grant
// for it. A missing file is a denial, not an error.
func (a *Access) CanAccess(ctx context.Context, fileID, requesterID uuid.UUID) (bool, error) {
	_, allowed, err := a.decide(ctx, fileID, requesterID)
	return allowed, err
}

func (a *Access) decide(ctx context.Context, fileID, requesterID uuid.UUID) (model.File, bool, error) {
	file, err := a.fileStore.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.deny(AccessPathDirect, "file not found", "file_id", fileID, "requester_id", requesterID)
			return model.File{}, false, nil
		}
		return model.File{}, false, fmt.Errorf("failed to get file: %w", err)
	}

	if file.OwnerID == requesterID {
		a.recorder.AccessDecision(AccessPathDirect, true)
		return file, true, nil
	}

	granted, err := a.grantStore.HasDirect(ctx, fileID, requesterID)
	if err != nil {
		return model.File{}, false, fmt.Errorf("failed to check grant: %w", err)
	}
	if !granted {
		a.deny(AccessPathDirect, "no grant", "file_id", fileID, "requester_id", requesterID)
		return model.File{}, false, nil
	}

	a.recorder.AccessDecision(AccessPathDirect, true)
	return file, true, nil
}

// CanAccessViaLink resolves a link token to its file. The second result is
// false when the token was never issued.
func (a *Access) CanAccessViaLink(ctx context.Context, token string) (uuid.UUID, bool, error) {
	file, ok, err := a.decideLink(ctx, token)
	return file.ID, ok, err
}

func (a *Access) decideLink(ctx context.Context, token string) (model.File, bool, error) {
	if token == "" {
		a.deny(AccessPathLink, "empty token")
		return model.File{}, false, nil
	}

	grant, err := a.grantStore.GetLink(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.deny(AccessPathLink, "unknown token")
			return model.File{}, false, nil
		}
		return model.File{}, false, fmt.Errorf("failed to resolve link: %w", err)
	}

	file, err := a.fileStore.GetByID(ctx, grant.FileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.deny(AccessPathLink, "file not found", "file_id", grant.FileID)
			return model.File{}, false, nil
		}
		return model.File{}, false, fmt.Errorf("failed to get file: %w", err)
	}

	a.recorder.AccessDecision(AccessPathLink, true)
	return file, true, nil
}

func (a *Access) deny(path, reason string, args ...any) {
	a.recorder.AccessDecision(path, false)
	a.logger.Info("Access service: access denied",
		append([]any{"path", path, "reason", reason}, args...)...)
}

// Download opens the file for requesterID or returns model.ErrAccessDenied.
// The caller closes the reader.
func (a *Access) Download(ctx context.Context, fileID, requesterID uuid.UUID) (model.File, io.ReadCloser, error) {
	file, allowed, err := a.decide(ctx, fileID, requesterID)
	if err != nil {
		return model.File{}, nil, err
	}
	if !allowed {
		return model.File{}, nil, model.ErrAccessDenied
	}
	return a.open(ctx, file)
}

// DownloadByLink opens the file a link token grants or returns
// model.ErrAccessDenied.
func (a *Access) DownloadByLink(ctx context.Context, token string) (model.File, io.ReadCloser, error) {
	file, allowed, err := a.decideLink(ctx, token)
	if err != nil {
		return model.File{}, nil, err
	}
	if !allowed {
		return model.File{}, nil, model.ErrAccessDenied
	}
	return a.open(ctx, file)
}

func (a *Access) open(ctx context.Context, file model.File) (model.File, io.ReadCloser, error) {
	body, err := a.blobStore.Download(ctx, file.StoredName)
	if err != nil {
		a.logger.Error("Access service: failed to open blob",
			"file_id", file.ID,
			"key", file.StoredName,
			"error", err.Error())
		if errors.Is(err, model.ErrNotFound) {
			return model.File{}, nil, fmt.Errorf("failed to open file %s: %w", file.ID, model.ErrBlobMissing)
		}
		return model.File{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, body, nil
}
