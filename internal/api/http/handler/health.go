package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
)

// healthKey is looked up in the blob store; it never exists, so only an
// unreachable backend fails the check.
const healthKey = "healthz"

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BlobChecker is satisfied by model.BlobStore.
type BlobChecker interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type Health struct {
	db     Pinger
	blobs  BlobChecker
	logger *logger.Logger
}

func NewHealth(db Pinger, blobs BlobChecker, logger *logger.Logger) *Health {
	return &Health{db: db, blobs: blobs, logger: logger}
}

// Health godoc
// @Summary Readiness including the database and blob store
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.ErrorPayload
// @Router /health [get]
func (h *Health) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health handler: database ping failed", "error", err.Error())
		return response.Error(c, fiber.StatusServiceUnavailable, response.CodeUnavailable, "dependency unavailable")
	}
	if _, err := h.blobs.Exists(ctx, healthKey); err != nil {
		h.logger.Warn("Health handler: blob store check failed", "error", err.Error())
		return response.Error(c, fiber.StatusServiceUnavailable, response.CodeUnavailable, "dependency unavailable")
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}

// Live is a liveness probe.
func (h *Health) Live(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}
