package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// LegacyAuthHeader carries a raw session token without the Bearer scheme.
const LegacyAuthHeader = "auth"

// TokenVerifier resolves a session token to a user ID.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates the session token and stores the user ID in the
// request's user context.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

// TokenFromRequest reads "Authorization: Bearer <t>" and falls back to the
// "auth" header.
func TokenFromRequest(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(c.Get(LegacyAuthHeader), "Bearer "))
}

func (m *Authenticate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := m.verifier.Verify(c.UserContext(), TokenFromRequest(c))
		if err != nil {
			m.logger.Debug("Authenticate middleware: request rejected",
				"request_id", RequestIDFromCtx(c),
				"error", err.Error())
			return response.FromError(c, err)
		}

		c.SetUserContext(m.contextManager.SetUserIDToContext(c.UserContext(), userID))
		return c.Next()
	}
}
