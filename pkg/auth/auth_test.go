package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidateToken(t *testing.T) {
	principal := Principal{UserID: 7, Email: "reader@example.com", IsStaff: true}

	token, err := SignToken(principal, "secret", time.Hour)
	require.NoError(t, err)

	parsed, err := ValidToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestValidTokenWrongSecret(t *testing.T) {
	token, err := SignToken(Principal{UserID: 7}, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidTokenExpired(t *testing.T) {
	token, err := SignToken(Principal{UserID: 7}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidToken(token, "secret")
	assert.Error(t, err)
}

func TestValidTokenGarbage(t *testing.T) {
	_, err := ValidToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, CheckPassword(hash, "password123"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}
