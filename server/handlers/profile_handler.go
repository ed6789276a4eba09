package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ThatPopcorn/rateAmovie/server/services"
	"github.com/ThatPopcorn/rateAmovie/shared/config"
	"github.com/ThatPopcorn/rateAmovie/shared/database/models"
)

type ProfileHandler struct {
	db    *gorm.DB
	media *services.MediaService
}

func NewProfileHandler(db *gorm.DB, media *services.MediaService) *ProfileHandler {
	return &ProfileHandler{db: db, media: media}
}

// ProfileResponse represents the authenticated user's profile
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	FavoriteGenres string    `json:"favorite_genres,omitempty"`
	ReviewCount    int       `json:"review_count"`
	CreatedAt      string    `json:"created_at"`
}

// UpdateProfileRequest represents request body for profile updates
type UpdateProfileRequest struct {
	Bio            *string `json:"bio"`
	FavoriteGenres *string `json:"favorite_genres"`
}

func buildProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		FavoriteGenres: user.FavoriteGenres,
		ReviewCount:    len(user.Reviews),
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

// GET /api/profile
// @Summary Get own profile
// @Description Get the authenticated user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.ProfileResponse
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "User not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, buildProfileResponse(user))
}

// PUT /api/profile
// @Summary Update own profile
// @Description Update the authenticated user's bio and favorite genres
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Profile updated successfully"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.FavoriteGenres != nil {
		user.FavoriteGenres = *req.FavoriteGenres
	}

	if err := h.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": buildProfileResponse(user),
	})
}

// POST /api/profile/picture
// @Summary Upload profile picture
// @Description Upload a profile picture; replaces the previous one
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file (.jpg, .jpeg, .png, .webp)"
// @Success 200 {object} map[string]interface{} "Profile picture updated"
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 503 {object} map[string]string "Media storage unavailable"
// @Router /profile/picture [post]
func (h *ProfileHandler) UploadProfilePicture(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media storage is unavailable"})
		return
	}

	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	cfg := config.GetConfig()
	if fileHeader.Size > cfg.GetMaxUploadSizeBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File exceeds the %s MB limit", cfg.MaxUploadSizeMB)})
		return
	}

	if err := services.ValidateImageName(fileHeader.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectKey := fmt.Sprintf("profiles/%s%s", user.ID, ext)

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.media.UploadImage(c.Request.Context(), file, objectKey, fileHeader.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store profile picture"})
		return
	}

	user.ProfilePicture = h.media.ObjectURL(objectKey)
	if err := h.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Profile picture updated",
		"profile_picture": user.ProfilePicture,
	})
}

func (h *ProfileHandler) loadCurrentUser(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet("userID").(uuid.UUID)

	var user models.User
	if err := h.db.Preload("Reviews").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}

	return &user, true
}
