package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// FileService stores and lists files.
type FileService interface {
	Upload(ctx context.Context, params model.UploadParams) (model.File, error)
	ListOwnedBy(ctx context.Context, userID uuid.UUID) ([]model.File, error)
	ListSharedWith(ctx context.Context, userID uuid.UUID) ([]model.File, error)
}

// DownloadService opens files after an access decision.
type DownloadService interface {
	Download(ctx context.Context, fileID, requesterID uuid.UUID) (model.File, io.ReadCloser, error)
	DownloadByLink(ctx context.Context, token string) (model.File, io.ReadCloser, error)
}

type File struct {
	files          FileService
	downloads      DownloadService
	contextManager model.ContextManager
	maxBytes       int64
	logger         *logger.Logger
}

func NewFile(
	files FileService,
	downloads DownloadService,
	contextManager model.ContextManager,
	maxBytes int64,
	logger *logger.Logger,
) *File {
	return &File{
		files:          files,
		downloads:      downloads,
		contextManager: contextManager,
		maxBytes:       maxBytes,
		logger:         logger,
	}
}

// UploadResponse is returned after an upload.
type UploadResponse struct {
	Message string     `json:"message"`
	FileID  uuid.UUID  `json:"fileId"`
	File    model.File `json:"file"`
}

// Upload godoc
// @Summary Upload a file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file"
// @Security BearerAuth
// @Success 201 {object} UploadResponse
// @Failure 400 {object} response.ErrorPayload
// @Failure 413 {object} response.ErrorPayload
// @Router /upload [post]
func (h *File) Upload(c *fiber.Ctx) error {
	owner, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "file is required")
	}
	if fh.Size > h.maxBytes {
		return response.Error(c, fiber.StatusRequestEntityTooLarge, response.CodeTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
	}

	body, err := fh.Open()
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "cannot open uploaded file")
	}
	defer body.Close()

	file, err := h.files.Upload(c.UserContext(), model.UploadParams{
		OwnerID:      owner,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		ContentType:  fh.Header.Get(fiber.HeaderContentType),
		Body:         body,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UploadResponse{Message: "File uploaded", FileID: file.ID, File: file})
}

// MyFiles godoc
// @Summary List own files
// @Tags files
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.File
// @Router /myfiles [get]
func (h *File) MyFiles(c *fiber.Ctx) error {
	owner, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	files, err := h.files.ListOwnedBy(c.UserContext(), owner)
	if err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(files)
}

// SharedWithMe godoc
// @Summary List files shared with the caller
// @Tags files
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.File
// @Router /files/shared [get]
func (h *File) SharedWithMe(c *fiber.Ctx) error {
	me, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	files, err := h.files.ListSharedWith(c.UserContext(), me)
	if err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(files)
}

// Download godoc
// @Summary Download a file by id
// @Tags files
// @Produce octet-stream
// @Param id path string true "file id"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorPayload
// @Router /download/{id} [get]
func (h *File) Download(c *fiber.Ctx) error {
	me, ok := userID(c, h.contextManager)
	if !ok {
		return response.FromError(c, model.ErrMissingToken)
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NoAccess(c)
	}

	file, body, err := h.downloads.Download(c.UserContext(), fileID, me)
	if err != nil {
		return response.FromError(c, err)
	}

	return h.send(c, file, body)
}

// Shared godoc
// @Summary Download a file through a share link
// @Tags files
// @Produce octet-stream
// @Param link path string true "link token"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorPayload
// @Router /shared/{link} [get]
func (h *File) Shared(c *fiber.Ctx) error {
	file, body, err := h.downloads.DownloadByLink(c.UserContext(), c.Params("link"))
	if err != nil {
		return response.FromError(c, err)
	}

	return h.send(c, file, body)
}

// send streams body; fasthttp closes it once written.
func (h *File) send(c *fiber.Ctx, file model.File, body io.ReadCloser) error {
	c.Attachment(file.OriginalName)
	// Attachment guesses the type from the name; the stored type wins.
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.SendStream(body, int(file.Size))
}
