package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ThatPopcorn/rateAmovie/server/middleware"
	"github.com/ThatPopcorn/rateAmovie/shared/database/models"
	"github.com/ThatPopcorn/rateAmovie/shared/database/models/auth"
	utils "github.com/ThatPopcorn/rateAmovie/shared/utils/auth"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register Request struct
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"longenough1"`
}

// Login Request/Response structs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"longenough1"`
}

type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Refresh Response struct
type RefreshResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt   time.Time `json:"expires_at" example:"2025-06-02T19:37:11.076935+03:00"`
}

// POST /api/auth/register
// @Summary Register new user
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "User registration data"
// @Success 201 {object} map[string]string "User created successfully"
// @Failure 400 {object} map[string]string "Malformed request, weak password or duplicate identity"
// @Failure 429 {object} map[string]string "Too many registration attempts"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Weak passwords fail before anything is stored
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check username and email uniqueness
	var existingUser models.User
	if err := h.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrDuplicateIdentity.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// A registration racing this one can take the username or email
		// between the lookup and the insert; the unique indexes decide.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrDuplicateIdentity.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate a user and return access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	clientIP := c.ClientIP()
	if err := h.checkLoginRateLimit(req.Email, clientIP); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
		return
	}

	// Unknown email and wrong password produce the same response; the
	// distinction only exists in the attempt log.
	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		h.recordFailedLogin(req.Email, clientIP, c.GetHeader("User-Agent"), "user_not_found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": utils.ErrInvalidCredentials.Error()})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.recordFailedLogin(req.Email, clientIP, c.GetHeader("User-Agent"), "wrong_password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": utils.ErrInvalidCredentials.Error()})
		return
	}

	accessToken, err := utils.GenerateAccessJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	h.recordSuccessfulLogin(user.Email, clientIP, c.GetHeader("User-Agent"))

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		Username:     user.Username,
		ExpiresAt:    time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// POST /api/auth/logout
// @Summary User logout
// @Description Revoke the presented access token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out successfully"
// @Failure 400 {object} map[string]string "Token missing, invalid, expired or already revoked"
// @Failure 500 {object} map[string]string "Could not revoke token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := middleware.ExtractTokenFromHeader(c)
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	// Only a currently valid, non-revoked access token can be logged out;
	// anything else has nothing meaningful to revoke.
	claims, err := utils.AuthenticateAccessToken(h.db, tokenString)
	if err != nil {
		log.Printf("🔒 Logout rejected: %v (ip=%s)", err, c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := utils.BlacklistToken(h.db, claims, "user_logout"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// POST /api/auth/refresh
// @Summary Refresh access token
// @Description Mint a new access token from a valid refresh token presented as bearer
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.RefreshResponse "New access token"
// @Failure 401 {object} map[string]string "Invalid, expired or revoked refresh token"
// @Failure 500 {object} map[string]string "Failed to generate new token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenString := middleware.ExtractTokenFromHeader(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
		return
	}

	claims, err := utils.ValidateRefreshJWT(tokenString)
	if err != nil {
		log.Printf("🔒 Refresh rejected: %v (ip=%s)", err, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	// Revoked refresh tokens stop minting access tokens
	revoked, err := utils.IsTokenBlacklisted(h.db, claims.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify token"})
		return
	}
	if revoked {
		log.Printf("🔒 Refresh rejected: %v (ip=%s)", utils.ErrRevokedToken, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	accessToken, err := utils.GenerateAccessJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// checkLoginRateLimit refuses logins after repeated recent failures for the
// same email or IP, on top of the per-IP middleware limiter
func (h *AuthHandler) checkLoginRateLimit(email, ipAddress string) error {
	var count int64
	h.db.Model(&auth.LoginAttempt{}).
		Where("(email = ? OR ip_address = ?) AND successful = ? AND created_at > ?",
			email, ipAddress, false, time.Now().Add(-15*time.Minute)).
		Count(&count)

	if count >= 5 {
		return errors.New("too many failed login attempts")
	}
	return nil
}

func (h *AuthHandler) recordFailedLogin(email, ipAddress, userAgent, failureType string) {
	attempt := auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		Successful:  false,
		FailureType: failureType,
	}
	h.db.Create(&attempt)
}

func (h *AuthHandler) recordSuccessfulLogin(email, ipAddress, userAgent string) {
	attempt := auth.LoginAttempt{
		Email:      email,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Successful: true,
	}
	h.db.Create(&attempt)
}
