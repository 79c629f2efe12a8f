package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "://bad", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=db.parse_config")
}

func TestNewPool_UnreachableGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := NewPool(ctx, "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", 200*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=db.ping")
}

func TestSchema_DeclaresUniqueKeys(t *testing.T) {
	assert.Contains(t, schemaSQL, "UNIQUE (session_id, question_id)")
	assert.Contains(t, schemaSQL, "session_id       TEXT NOT NULL UNIQUE")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("x")))
}
