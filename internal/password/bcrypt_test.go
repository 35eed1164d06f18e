package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/fileshare-server/internal/model"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("pw1"), hash)

	require.NoError(t, h.Compare(hash, "pw1"))
	require.ErrorIs(t, h.Compare(hash, "pw2"), model.ErrInvalidCredentials)
}

func TestBcrypt_SaltsEachHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcrypt_CorruptHash(t *testing.T) {
	err := NewBcrypt(bcrypt.MinCost).Compare([]byte("not-a-hash"), "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestNewBcrypt_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(99).cost)
	assert.Equal(t, 12, NewBcrypt(12).cost)
}

func TestBcrypt_PasswordTooLong(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", MaxLength+1))
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "at most 72 bytes")

	_, err = h.Hash(strings.Repeat("p", MaxLength))
	require.NoError(t, err)
}
