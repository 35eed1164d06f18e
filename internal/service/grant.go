package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

const (
	linkTokenBytes = 18
	// linkTokenAttempts bounds regeneration after a token collision.
	linkTokenAttempts = 3
)

// NewLinkToken returns a URL-safe token carrying 144 random bits.
func NewLinkToken() (string, error) {
	b := make([]byte, linkTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Grant is the grant ledger. Only a file's owner may share it.
type Grant struct {
	fileStore  model.FileStore
	userStore  model.UserStore
	grantStore model.GrantStore
	recorder   Recorder
	logger     *logger.Logger
	newToken   func() (string, error)
	now        func() time.Time
}

func NewGrant(
	fileStore model.FileStore,
	userStore model.UserStore,
	grantStore model.GrantStore,
	recorder Recorder,
	logger *logger.Logger,
) *Grant {
	return &Grant{
		fileStore:  fileStore,
		userStore:  userStore,
		grantStore: grantStore,
		recorder:   recorderOrNoop(recorder),
		logger:     logger,
		newToken:   NewLinkToken,
		now:        time.Now,
	}
}

// checkOwner returns model.ErrForbidden both for missing files and for files
// owned by someone else.
func (g *Grant) checkOwner(ctx context.Context, fileID, granterID uuid.UUID) error {
	file, err := g.fileStore.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			g.logger.Info("Grant service: share of missing file",
				"file_id", fileID,
				"granter_id", granterID)
			return model.ErrForbidden
		}
		return fmt.Errorf("failed to get file: %w", err)
	}
	if file.OwnerID != granterID {
		g.logger.Info("Grant service: share by non-owner",
			"file_id", fileID,
			"granter_id", granterID)
		return model.ErrForbidden
	}
	return nil
}

// GrantToUser lets the user registered under recipientEmail read the file.
// Repeated grants are accepted.
func (g *Grant) GrantToUser(ctx context.Context, fileID, granterID uuid.UUID, recipientEmail string) error {
	if err := g.checkOwner(ctx, fileID, granterID); err != nil {
		return err
	}

	if recipientEmail == "" {
		return fmt.Errorf("%w: recipient email is required", model.ErrValidation)
	}

	recipient, err := g.userStore.GetByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("recipient %q: %w", recipientEmail, model.ErrNotFound)
		}
		return fmt.Errorf("failed to get recipient: %w", err)
	}

	err = g.grantStore.CreateDirect(ctx, model.DirectGrant{
		ID:          uuid.New(),
		FileID:      fileID,
		RecipientID: recipient.ID,
		CreatedAt:   g.now(),
	}, granterID)
	if err != nil {
		if errors.Is(err, model.ErrForbidden) || errors.Is(err, model.ErrNotFound) {
			return err
		}
		g.logger.Error("Grant service: failed to create direct grant",
			"file_id", fileID,
			"error", err.Error())
		return fmt.Errorf("failed to create direct grant: %w", err)
	}

	g.recorder.GrantCreated(GrantKindDirect)
	g.logger.Info("Grant service: file shared",
		"file_id", fileID,
		"recipient_id", recipient.ID)

	return nil
}

// GrantByLink mints a link token for the file and returns it.
func (g *Grant) GrantByLink(ctx context.Context, fileID, granterID uuid.UUID) (string, error) {
	if err := g.checkOwner(ctx, fileID, granterID); err != nil {
		return "", err
	}

	for attempt := 1; attempt <= linkTokenAttempts; attempt++ {
		token, err := g.newToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate link token: %w", err)
		}

		err = g.grantStore.CreateLink(ctx, model.LinkGrant{
			ID:        uuid.New(),
			FileID:    fileID,
			Token:     token,
			CreatedAt: g.now(),
		}, granterID)
		if err == nil {
			g.recorder.GrantCreated(GrantKindLink)
			g.logger.Info("Grant service: link created",
				"file_id", fileID)
			return token, nil
		}
		if errors.Is(err, model.ErrLinkTokenTaken) {
			g.logger.Warn("Grant service: link token collision",
				"file_id", fileID,
				"attempt", attempt)
			continue
		}
		if errors.Is(err, model.ErrForbidden) {
			return "", err
		}
		g.logger.Error("Grant service: failed to create link grant",
			"file_id", fileID,
			"error", err.Error())
		return "", fmt.Errorf("failed to create link grant: %w", err)
	}

	return "", fmt.Errorf("failed to create link grant after %d attempts: %w", linkTokenAttempts, model.ErrLinkTokenTaken)
}

// ResolveLink returns the file a link token grants.
func (g *Grant) ResolveLink(ctx context.Context, token string) (uuid.UUID, error) {
	if strings.TrimSpace(token) == "" {
		return uuid.Nil, model.ErrNotFound
	}

	grant, err := g.grantStore.GetLink(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return uuid.Nil, model.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	return grant.FileID, nil
}
