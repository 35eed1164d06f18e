package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// AuthService registers users and opens sessions.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
}

type Auth struct {
	service AuthService
	logger  *logger.Logger
}

func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after a user is created.
type RegisterResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "credentials"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} response.ErrorPayload
// @Failure 409 {object} response.ErrorPayload
// @Router /register [post]
func (h *Auth) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "invalid request body")
	}

	id, err := h.service.Register(c.UserContext(), model.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{Message: "User created", ID: id})
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} model.Session
// @Failure 401 {object} response.ErrorPayload
// @Failure 404 {object} response.ErrorPayload
// @Router /login [post]
func (h *Auth) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, response.CodeValidation, "invalid request body")
	}

	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	return c.JSON(session)
}
