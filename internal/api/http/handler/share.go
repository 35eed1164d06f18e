package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// GrantService shares files owned by the caller.
type GrantService interface {
	GrantToUser(ctx context.Context, fileID, granterID uuid.UUID, recipientEmail string) error
	GrantByLink(ctx context.Context, fileID, granterID uuid.UUID) (string, error)
}

type Share struct {
	grants         GrantService
	contextManager model.ContextManager
	publicBaseURL  string
	logger         *logger.Logger
}

func NewShare(grants GrantService, contextManager model.ContextManager, publicBaseURL string, logger *logger.Logger) *Share {
	return &Share{
		grants:         grants,
		contextManager: contextManager,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		logger:         logger,
	}
}

// ShareRequest is the body of POST /share.
type ShareRequest struct {
	FileID string `json:"fileId"`
	Email  string `json:"email"`
}

// CreateLinkRequest is the body of POST /create-link.
type CreateLinkRequest struct {
	FileID string `json:"fileId"`
}

// Share godoc
// @Summary Share a file with a registered user
// @Tags sharing
// @Accept json
// @Produce json
// @Param body body ShareRequest true "file and recipient"
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 404 {object} response.ErrorPayload
// @Router /share [post]
func (h *Share) Share(c *fiber.Ctx) error {
	me, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "invalid request body")
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		return response.NoAccess(c)
	}

	if err := h.grants.GrantToUser(c.UserContext(), fileID, me, req.Email); err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(MessageResponse{Message: "File shared"})
}

// CreateLink godoc
// @Summary Create a public share link
// @Tags sharing
// @Accept json
// @Produce json
// @Param body body CreateLinkRequest true "file"
// @Security BearerAuth
// @Success 201 {object} model.Link
// @Failure 404 {object} response.ErrorPayload
// @Router /create-link [post]
func (h *Share) CreateLink(c *fiber.Ctx) error {
	me, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "invalid request body")
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		return response.NoAccess(c)
	}

	token, err := h.grants.GrantByLink(c.UserContext(), fileID, me)
	if err != nil {
		return response.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(model.Link{
		FileID: fileID,
		Token:  token,
		URL:    h.publicBaseURL + "/shared/" + token,
	})
}
