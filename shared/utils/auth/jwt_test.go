package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessJWT(t *testing.T) {
	userID := uuid.New()

	tokenString, err := GenerateAccessJWT(userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateAccessJWT(tokenString)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateAccessJWT_UniqueJTI(t *testing.T) {
	userID := uuid.New()

	first, err := GenerateAccessJWT(userID, "alice")
	require.NoError(t, err)
	second, err := GenerateAccessJWT(userID, "alice")
	require.NoError(t, err)

	firstClaims, err := ValidateAccessJWT(first)
	require.NoError(t, err)
	secondClaims, err := ValidateAccessJWT(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestValidateJWT_Malformed(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ValidateJWT(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	claims := Claims{
		UserID:    uuid.NewString(),
		Username:  "alice",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_Expired(t *testing.T) {
	claims := Claims{
		UserID:    uuid.NewString(),
		Username:  "alice",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessJWT_RejectsRefreshToken(t *testing.T) {
	userID := uuid.New()

	refreshToken, err := GenerateRefreshJWT(userID, "alice")
	require.NoError(t, err)

	_, err = ValidateAccessJWT(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshJWT_RejectsAccessToken(t *testing.T) {
	userID := uuid.New()

	accessToken, err := GenerateAccessJWT(userID, "alice")
	require.NoError(t, err)

	_, err = ValidateRefreshJWT(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
