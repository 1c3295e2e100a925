package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACKeyRoundtrip(t *testing.T) {
	a := New("", "test-master-secret")

	key := a.GenerateHMACKey("integration-bot")
	userID, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "integration-bot", userID)
}

func TestHMACKeyTamperDetected(t *testing.T) {
	a := New("", "test-master-secret")

	key := a.GenerateHMACKey("integration-bot")
	_, err := a.VerifyHMACKey("other-bot." + key[len("integration-bot."):])
	assert.Error(t, err)

	_, err = a.VerifyHMACKey("not-a-key")
	assert.Error(t, err)
}

func TestTokenRoundtrip(t *testing.T) {
	a := New("test-jwt-secret", "")

	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	a := New("test-jwt-secret", "")
	other := New("different-secret", "")

	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}
