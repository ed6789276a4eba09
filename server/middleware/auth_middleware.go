package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	utils "github.com/ThatPopcorn/rateAmovie/shared/utils/auth"
)

// Context keys set for authenticated requests
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextClaims   = "tokenClaims"
)

// AuthMiddleware gates protected routes. Rejections are all 401 with the same
// generic body; the specific cause (missing header, bad signature, expiry,
// revocation) is logged so audits can distinguish them. On success the acting
// identity is bound into the request context.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractTokenFromHeader(c)
		if tokenString == "" {
			rejectUnauthorized(c, utils.ErrMissingCredential)
			return
		}

		claims, err := utils.AuthenticateAccessToken(db, tokenString)
		if err != nil {
			rejectUnauthorized(c, err)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			rejectUnauthorized(c, utils.ErrInvalidToken)
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// rejectUnauthorized collapses every rejection state into one externally
// observable outcome
func rejectUnauthorized(c *gin.Context, cause error) {
	log.Printf("🔒 Request rejected: %v (path=%s, ip=%s)", cause, c.FullPath(), c.ClientIP())
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	c.Abort()
}

// ExtractTokenFromHeader extracts the bearer token from the Authorization
// header, or returns "" when absent or malformed
func ExtractTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}

	return tokenParts[1]
}
