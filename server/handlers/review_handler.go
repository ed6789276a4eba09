package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ThatPopcorn/rateAmovie/shared/database/models"
	"github.com/ThatPopcorn/rateAmovie/shared/utils/cache"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	CreatedAt string    `json:"created_at"`
}

// CreateReviewRequest represents request body for submitting a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Content string `json:"content" binding:"required" example:"Holds up on every rewatch."`
}

// LikeReviewRequest represents request body for voting on a review
type LikeReviewRequest struct {
	IsLike *bool `json:"is_like" binding:"required" example:"true"`
}

// GET /api/movies/:id/reviews
// @Summary List reviews for a movie
// @Description List a movie's reviews, newest first
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {array} handlers.ReviewResponse
// @Failure 404 {object} map[string]string "Movie not found"
// @Router /movies/{id}/reviews [get]
func (h *ReviewHandler) GetMovieReviews(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	var movie models.Movie
	if err := h.db.Select("id").Where("id = ?", movieID).First(&movie).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	var reviews []models.Review
	if err := h.db.Preload("User").Preload("Likes").
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// POST /api/movies/:id/reviews
// @Summary Submit a review
// @Description Submit a star rating with a text review; one review per user per movie
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param review body CreateReviewRequest true "Review data"
// @Success 201 {object} map[string]string "Review added successfully"
// @Failure 400 {object} map[string]string "Malformed request or already reviewed"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Movie not found"
// @Router /movies/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	var movie models.Movie
	if err := h.db.Select("id").Where("id = ?", movieID).First(&movie).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	var req CreateReviewRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	var existing models.Review
	if err := h.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this movie"})
		return
	}

	review := models.Review{
		Rating:  req.Rating,
		Content: req.Content,
		UserID:  userID,
		MovieID: movieID,
	}

	if err := h.db.Create(&review).Error; err != nil {
		// The composite unique index settles double submissions
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this movie"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create review"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateMovieCache(movieID)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review added successfully"})
}

// POST /api/reviews/:id/like
// @Summary Vote on a review
// @Description Like or dislike a review; one vote per user per review, revotes overwrite
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param vote body LikeReviewRequest true "Vote"
// @Success 200 {object} map[string]string "Vote recorded"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id}/like [post]
func (h *ReviewHandler) LikeReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var review models.Review
	if err := h.db.Select("id, movie_id").Where("id = ?", reviewID).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var req LikeReviewRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	like := models.ReviewLike{
		ReviewID: reviewID,
		UserID:   userID,
		IsLike:   *req.IsLike,
	}

	// Revotes flip the existing row instead of failing on the unique index
	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_like", "updated_at"}),
	}).Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

func buildReviewResponse(review *models.Review) ReviewResponse {
	var likes, dislikes int64
	for _, vote := range review.Likes {
		if vote.IsLike {
			likes++
		} else {
			dislikes++
		}
	}

	return ReviewResponse{
		ID:        review.ID,
		Rating:    review.Rating,
		Content:   review.Content,
		Username:  review.User.Username,
		Likes:     likes,
		Dislikes:  dislikes,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}
