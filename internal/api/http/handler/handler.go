package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/model"
)

// MessageResponse is returned by operations with no other result.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorHandler answers errors that escape the handlers, such as unknown
// routes or oversized bodies.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return response.Error(c, status, response.CodeValidation, "bad request")
		case fiber.StatusNotFound:
			return response.Error(c, status, response.CodeNotFound, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, status, response.CodeTooLarge, "file too large")
		default:
			return response.Error(c, fiber.StatusInternalServerError, response.CodeInternal, "internal server error")
		}
	}
}

func userID(c *fiber.Ctx, cm model.ContextManager) (uuid.UUID, bool) {
	return cm.GetUserIDFromContext(c.UserContext())
}
