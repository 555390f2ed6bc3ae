package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-0123456789")

func TestGenerateAndValidate(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(secret, id, "alice", "sess-1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "sess-1", claims.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(secret, uuid.New(), "alice", "sess-1", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("another-secret-xxxxxx"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := GenerateToken(secret, uuid.New(), "alice", "sess-1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := ValidateToken(secret, "")
	assert.ErrorIs(t, err, ErrMissingToken)
}
