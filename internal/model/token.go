package model

import "github.com/google/uuid"

// TokenManager issues and validates session tokens.
type TokenManager interface {
	Generate(userID uuid.UUID) (string, error)
	Parse(token string) (uuid.UUID, error)
}
