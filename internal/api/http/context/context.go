package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/model"
)

type userIDKey struct{}

// Manager stores the authenticated user ID in a request context.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a copy of ctx carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserIDFromContext returns the user ID set by SetUserIDToContext.
// A nil UUID counts as absent.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
