package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fileshare-server/internal/model"
)

// RequestIDLocalKey is the fiber locals key holding the request ID.
const RequestIDLocalKey = "request_id"

// Error codes returned in the error envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNoAccess           = "NO_ACCESS"
	CodeTooLarge           = "FILE_TOO_LARGE"
	CodeNotFound           = "NOT_FOUND"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorPayload is the body of every error response.
type ErrorPayload struct {
	RequestID string        `json:"request_id"`
	Error     ErrorEnvelope `json:"error"`
}

type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDLocalKey).(string)
	return id
}

// Error writes an error envelope with the given status.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorPayload{
		RequestID: requestID(c),
		Error: ErrorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// Classify maps a domain error to the status, code and message shown to
// clients. Ownership failures and denials share one "no access" answer so
// callers cannot probe for files they cannot see.
func Classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return fiber.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, model.ErrDuplicateEmail):
		return fiber.StatusConflict, CodeEmailTaken, "email is already taken"
	case errors.Is(err, model.ErrForbidden), errors.Is(err, model.ErrAccessDenied):
		return fiber.StatusNotFound, CodeNoAccess, "no access"
	case errors.Is(err, model.ErrNotFound):
		return fiber.StatusNotFound, CodeUserNotFound, "user not found"
	case errors.Is(err, model.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, CodeInvalidCredentials, "wrong password"
	case errors.Is(err, model.ErrMissingToken):
		return fiber.StatusUnauthorized, CodeMissingToken, "not logged in"
	case errors.Is(err, model.ErrInvalidToken):
		return fiber.StatusUnauthorized, CodeInvalidToken, "invalid token"
	default:
		return fiber.StatusInternalServerError, CodeInternal, "internal server error"
	}
}

// FromError writes the classified error envelope for err.
func FromError(c *fiber.Ctx, err error) error {
	status, code, message := Classify(err)
	return Error(c, status, code, message)
}

// NoAccess writes the undifferentiated denial.
func NoAccess(c *fiber.Ctx) error {
	return FromError(c, model.ErrAccessDenied)
}
