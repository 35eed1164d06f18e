package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_NilPool(t *testing.T) {
	c := &Connection{}

	require.Error(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())
}

func TestNewConnection_BadDSN(t *testing.T) {
	_, err := NewConnection(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse postgres dsn")
}

func TestPgErrorCode(t *testing.T) {
	unique := &pgconn.PgError{Code: codeUniqueViolation}
	fk := &pgconn.PgError{Code: codeForeignKeyViolation}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", unique)))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("plain")))
	assert.Equal(t, "", pgErrorCode(nil))
}
