package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/fileshare-server/internal/model"
)

// Bcrypt hashes passwords with a per-hash random salt.
type Bcrypt struct {
	cost int
}

var _ model.PasswordHasher = (*Bcrypt)(nil)

// NewBcrypt creates a hasher with the given cost; out-of-range costs fall
// back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

// Hash returns the salted hash of password. Passwords longer than
// MaxLength bytes are a validation error.
func (b *Bcrypt) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, MaxLength)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Compare returns model.ErrInvalidCredentials when password does not match hash.
func (b *Bcrypt) Compare(hash []byte, password string) error {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrInvalidCredentials
	}
	return fmt.Errorf("failed to compare password hash: %w", err)
}
