package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
)

// Auth registers users, checks credentials and validates session tokens.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
		now:          time.Now,
	}
}

// Register stores a new user with a hashed password and returns its id.
// Email uniqueness is left to the store.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (uuid.UUID, error) {
	switch {
	case strings.TrimSpace(params.Name) == "":
		return uuid.Nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	case strings.TrimSpace(params.Email) == "":
		return uuid.Nil, fmt.Errorf("%w: email is required", model.ErrValidation)
	case params.Password == "":
		return uuid.Nil, fmt.Errorf("%w: password is required", model.ErrValidation)
	}

	a.logger.Debug("Auth service: registering user",
		"email", params.Email)

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return uuid.Nil, err
		}
		a.logger.Error("Auth service: failed to hash password",
			"email", params.Email,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			a.logger.Info("Auth service: email already taken",
				"email", params.Email)
			return uuid.Nil, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID)

	return user.ID, nil
}

// Login checks credentials and issues a session token.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	if email == "" || password == "" {
		return model.Session{}, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown email",
				"email", email)
			return model.Session{}, fmt.Errorf("user %q: %w", email, model.ErrNotFound)
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			a.logger.Info("Auth service: wrong password",
				"user_id", user.ID)
			return model.Session{}, model.ErrInvalidCredentials
		}
		a.logger.Error("Auth service: failed to compare password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to compare password: %w", err)
	}

	token, err := a.tokenManager.Generate(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to generate session token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	return model.Session{Token: token, User: user.Summary()}, nil
}

// Verify returns the user id bound to a session token.
func (a *Auth) Verify(_ context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, model.ErrMissingToken
	}

	userID, err := a.tokenManager.Parse(token)
	if err != nil {
		a.logger.Debug("Auth service: rejected session token",
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("%w: %s", model.ErrInvalidToken, err.Error())
	}
	if userID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	return userID, nil
}
