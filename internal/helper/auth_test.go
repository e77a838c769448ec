package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken("u-1", "alice01", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice01", claims.Username)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "u-1", claims.ID)
}

func TestVerifyToken_BearerPrefix(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken("u-1", "alice01", "alice@example.com")
	require.NoError(t, err)

	claims, err := auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, "alice01", claims.Username)

	_, err = auth.VerifyToken("Bearer ")
	require.Error(t, err)
}

func TestVerifyToken_Failures(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken("u-1", "alice01", "alice@example.com")
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		_, err := auth.VerifyToken("")
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.VerifyToken("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := SetupAuth("other-secret", time.Hour)
		_, err := other.VerifyToken(token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := Auth{Secret: "test-secret", TTL: -time.Minute}
		tok, err := expired.GenerateToken("u-1", "alice01", "alice@example.com")
		require.NoError(t, err)
		_, err = auth.VerifyToken(tok)
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := auth.VerifyToken(token + "x")
		require.Error(t, err)
	})
}

func TestGenerateToken_MissingInputs(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	_, err := auth.GenerateToken("", "alice01", "alice@example.com")
	require.Error(t, err)
	_, err = auth.GenerateToken("u-1", "", "alice@example.com")
	require.Error(t, err)
	_, err = auth.GenerateToken("u-1", "alice01", "")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	digest, err := HashPassword("password1")
	require.NoError(t, err)
	require.NotEqual(t, "password1", digest)

	require.NoError(t, auth.VerifyPassword("password1", digest))
	require.Error(t, auth.VerifyPassword("password2", digest))

	// salted: two digests of the same input differ
	digest2, err := HashPassword("password1")
	require.NoError(t, err)
	require.NotEqual(t, digest, digest2)
}
