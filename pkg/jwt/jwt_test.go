package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewManager(&Config{
		Secret: "test-secret-key",
		Issuer: "test",
	})

	token, err := manager.GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	manager := NewManager(&Config{Secret: "secret-a", Issuer: "test"})
	other := NewManager(&Config{Secret: "secret-b", Issuer: "test"})

	token, err := manager.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateToken_Expired(t *testing.T) {
	manager := NewManager(&Config{
		Secret:      "test-secret-key",
		Issuer:      "test",
		TokenExpiry: -time.Minute,
	})

	token, err := manager.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	manager := NewManager(&Config{Secret: "test-secret-key", Issuer: "test"})

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
