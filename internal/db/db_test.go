package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestWrapNotFound(t *testing.T) {
	assert.NoError(t, WrapNotFound(nil))

	err := WrapNotFound(pgx.ErrNoRows)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))

	wrapped := WrapNotFound(fmt.Errorf("query users: %w", pgx.ErrNoRows))
	assert.True(t, IsNotFound(wrapped))

	other := WrapNotFound(errors.New("connection refused"))
	assert.False(t, IsNotFound(other))
	assert.EqualError(t, other, "db: connection refused")
}

func TestIsNotFound_MatchesDriverSentinel(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(ErrNotFound))
	assert.False(t, IsNotFound(nil))
}
