package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKey(t *testing.T) {
	h1 := HashKey("sg_live_abc")
	h2 := HashKey("sg_live_abc")
	h3 := HashKey("sg_live_abd")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)

	// Known digest of the empty string.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashKey(""))
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("rev1", "team1", secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "rev1", claims.ReviewerID)
	assert.Equal(t, "team1", claims.TeamID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("rev1", "team1", []byte("secret-a"), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("rev1", "team1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	require.Error(t, err)
}
