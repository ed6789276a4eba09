package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/ThatPopcorn/rateAmovie/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "token_type" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte(getJWTSecret())

func getJWTSecret() string {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return "fallback-secret-key-for-development"
	}
	return cfg.JWTSecret
}

// GetJWTExpireDuration gets the access token lifetime from config
func GetJWTExpireDuration() time.Duration {
	cfg := config.GetConfig()
	if cfg.JWTExpireHours == "" {
		return 1 * time.Hour
	}

	hours, err := strconv.Atoi(cfg.JWTExpireHours)
	if err != nil {
		return 1 * time.Hour
	}

	return time.Duration(hours) * time.Hour
}

// GetJWTRefreshExpireDuration gets the refresh token lifetime from config
func GetJWTRefreshExpireDuration() time.Duration {
	cfg := config.GetConfig()
	if cfg.JWTRefreshExpireDays == "" {
		return 7 * 24 * time.Hour
	}

	days, err := strconv.Atoi(cfg.JWTRefreshExpireDays)
	if err != nil {
		return 7 * 24 * time.Hour
	}

	return time.Duration(days) * 24 * time.Hour
}

// GenerateAccessJWT mints a signed access token with a fresh unique jti
func GenerateAccessJWT(userID uuid.UUID, username string) (string, error) {
	return generateJWT(userID, username, TokenTypeAccess, GetJWTExpireDuration())
}

// GenerateRefreshJWT mints a signed refresh token with a fresh unique jti
func GenerateRefreshJWT(userID uuid.UUID, username string) (string, error) {
	return generateJWT(userID, username, TokenTypeRefresh, GetJWTRefreshExpireDuration())
}

func generateJWT(userID uuid.UUID, username, tokenType string, lifetime time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID.String(),
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateJWT verifies signature and expiry and returns the claims.
// Malformed tokens and bad signatures map to ErrInvalidToken, expiry to
// ErrExpiredToken.
func ValidateJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessJWT validates a token and requires the access type.
// A refresh token presented where an access token is expected is invalid.
func ValidateAccessJWT(tokenString string) (*Claims, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateRefreshJWT validates a token and requires the refresh type
func ValidateRefreshJWT(tokenString string) (*Claims, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
