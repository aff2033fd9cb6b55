package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

// ===================== GenerateAccessToken Tests =====================

func TestGenerateAccessToken(t *testing.T) {
	manager := newTestJWTManager()
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "user@example.com", "user")

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestGenerateAccessToken_AdminRole(t *testing.T) {
	manager := newTestJWTManager()

	token, err := manager.GenerateAccessToken(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

// ===================== GenerateRefreshToken Tests =====================

func TestGenerateRefreshToken(t *testing.T) {
	manager := newTestJWTManager()

	token1, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token1)

	token2, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

// ===================== ValidateToken Tests =====================

func TestValidateToken_InvalidToken(t *testing.T) {
	manager := newTestJWTManager()

	cases := []string{
		"",
		"not-a-jwt",
		"header.payload.signature",
	}

	for _, token := range cases {
		_, err := manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	manager := newTestJWTManager()
	other := NewJWTManager("different-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	// Менеджер с отрицательным временем жизни выдаёт уже истекший токен
	manager := NewJWTManager("test-secret-key", -time.Minute, 7*24*time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

// ===================== Duration Tests =====================

func TestDurations(t *testing.T) {
	manager := newTestJWTManager()

	assert.Equal(t, 15*time.Minute, manager.GetAccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, manager.GetRefreshTokenDuration())
}
