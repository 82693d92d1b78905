package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := Hash("hunter2!")
	require.NoError(t, err)
	assert.Contains(t, hash, "argon2id$v=19$")

	require.NoError(t, VerifyPassword(hash, "hunter2!"))
	assert.Error(t, VerifyPassword(hash, "wrong"))
	assert.Error(t, VerifyPassword("not-a-hash", "hunter2!"))
}

func TestHash_UniqueSalt(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "jti-1", time.Minute, secret)
	require.NoError(t, err)

	claims, err := VerifyJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jti-1", claims.ID)

	_, err = VerifyJWT(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestTokenSecretsReadAtCallTime(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-one")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-one")
	assert.Equal(t, []byte("access-one"), AccessTokenSecret())
	assert.Equal(t, []byte("refresh-one"), RefreshTokenSecret())

	// Values set after package init, e.g. by godotenv, must be picked up.
	t.Setenv("ACCESS_TOKEN_SECRET", "access-two")
	assert.Equal(t, []byte("access-two"), AccessTokenSecret())
}

func TestVerifyJWT_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT(uuid.New(), "jti-2", -time.Minute, secret)
	require.NoError(t, err)

	_, err = VerifyJWT(token, secret)
	assert.Error(t, err)
}
