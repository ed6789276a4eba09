package handlers

import (
	"encoding/json"
	"errors"
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
	"github.com/ThatPopcorn/rateAmovie/shared/utils/cache"
	"github.com/ThatPopcorn/rateAmovie/shared/utils/query"
)

const releaseDateLayout = "2006-01-02"

type MovieHandler struct {
	db    *gorm.DB
	media *services.MediaService
}

func NewMovieHandler(db *gorm.DB, media *services.MediaService) *MovieHandler {
	return &MovieHandler{db: db, media: media}
}

// CreatorInfo is the public shape of a movie's creator
type CreatorInfo struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
}

// MovieResponse represents movie data for API responses
type MovieResponse struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ReleaseDate   string       `json:"release_date,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	Director      string       `json:"director,omitempty"`
	Cast          string       `json:"cast,omitempty"`
	AverageRating float64      `json:"average_rating"`
	ReviewCount   int          `json:"review_count"`
	Creator       *CreatorInfo `json:"creator,omitempty"`
	CreatedAt     string       `json:"created_at"`
}

// CreateMovieRequest represents request body for creating a movie
type CreateMovieRequest struct {
	Title       string `json:"title" binding:"required" example:"The Matrix"`
	Description string `json:"description" example:"A hacker discovers reality is a simulation."`
	ReleaseDate string `json:"release_date" binding:"required" example:"1999-03-31"`
	ImageURL    string `json:"image_url"`
	Director    string `json:"director" example:"The Wachowskis"`
	Cast        string `json:"cast" example:"Keanu Reeves, Laurence Fishburne"`
}

// UpdateMovieRequest represents request body for updating a movie
type UpdateMovieRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ReleaseDate string `json:"release_date"`
	ImageURL    string `json:"image_url"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
}

func buildMovieResponse(movie *models.Movie) MovieResponse {
	response := MovieResponse{
		ID:            movie.ID,
		Title:         movie.Title,
		Description:   movie.Description,
		ImageURL:      movie.ImageURL,
		Director:      movie.Director,
		Cast:          movie.Cast,
		AverageRating: movie.AverageRating(),
		ReviewCount:   len(movie.Reviews),
		CreatedAt:     movie.CreatedAt.Format(time.RFC3339),
	}

	if movie.ReleaseDate != nil {
		response.ReleaseDate = movie.ReleaseDate.Format(releaseDateLayout)
	}

	if movie.Creator != nil {
		response.Creator = &CreatorInfo{
			ID:             movie.Creator.ID,
			Username:       movie.Creator.Username,
			ProfilePicture: movie.Creator.ProfilePicture,
		}
	}

	return response
}

// GET /api/movies
// @Summary List movies
// @Description List movies with pagination, filtering, sorting and search
// @Tags movies
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search term across title and description"
// @Param filters[director] query string false "Filter by director"
// @Param sort[field] query string false "Sort field (title, release_date, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /movies [get]
func (h *MovieHandler) GetMovies(c *gin.Context) {
	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"director": "director",
	}

	allowedSortFields := map[string]string{
		"title":        "title",
		"release_date": "release_date",
		"created_at":   "created_at",
	}

	searchFields := []string{"title", "description"}

	baseQuery := h.db.Model(&models.Movie{}).
		Preload("Creator").
		Preload("Reviews")

	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var movies []models.Movie
	if err := finalQuery.Find(&movies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve movies"})
		return
	}

	movieResponses := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		movieResponses = append(movieResponses, buildMovieResponse(&movies[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      movieResponses,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// GET /api/movies/:id
// @Summary Get movie by ID
// @Description Get a movie's details including its aggregated rating
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} handlers.MovieResponse
// @Failure 404 {object} map[string]string
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	// Serve hot movie pages from cache
	if cm := cache.GetCacheManager(); cm != nil {
		if cached, err := cm.GetMovieCache(movieID); err == nil && cached != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached.Detail)
			return
		}
	}

	var movie models.Movie
	if err := h.db.Preload("Creator").Preload("Reviews").Where("id = ?", movieID).First(&movie).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	response := buildMovieResponse(&movie)

	if cm := cache.GetCacheManager(); cm != nil {
		if detail, err := json.Marshal(response); err == nil {
			cm.SetMovieCache(movieID, &cache.MovieCacheData{
				Detail:        detail,
				AverageRating: response.AverageRating,
				ReviewCount:   int64(response.ReviewCount),
			})
		}
	}

	c.JSON(http.StatusOK, response)
}

// POST /api/movies
// @Summary Create movie
// @Description Create a new movie entry
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movie body CreateMovieRequest true "Movie data"
// @Success 201 {object} map[string]interface{} "Movie added successfully"
// @Failure 400 {object} map[string]string "Malformed request or invalid date"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 500 {object} map[string]string "Could not create movie"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	releaseDate, err := time.Parse(releaseDateLayout, req.ReleaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	movie := models.Movie{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: &releaseDate,
		ImageURL:    req.ImageURL,
		Director:    req.Director,
		Cast:        req.Cast,
		UserID:      &userID,
	}

	if err := h.db.Create(&movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create movie"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Movie added successfully",
		"movie":   buildMovieResponse(&movie),
	})
}

// PUT /api/movies/:id
// @Summary Update movie
// @Description Update a movie; only its creator may do so
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param movie body UpdateMovieRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Movie updated successfully"
// @Failure 400 {object} map[string]string "Malformed request or invalid date"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Movie not found"
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	movie, ok := h.loadOwnedMovie(c)
	if !ok {
		return
	}

	var req UpdateMovieRequest
	if err := bindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
		return
	}

	if req.Title != "" {
		movie.Title = req.Title
	}
	if req.Description != "" {
		movie.Description = req.Description
	}
	if req.ReleaseDate != "" {
		releaseDate, err := time.Parse(releaseDateLayout, req.ReleaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		movie.ReleaseDate = &releaseDate
	}
	if req.ImageURL != "" {
		movie.ImageURL = req.ImageURL
	}
	if req.Director != "" {
		movie.Director = req.Director
	}
	if req.Cast != "" {
		movie.Cast = req.Cast
	}

	if err := h.db.Save(movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update movie"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateMovieCache(movie.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Movie updated successfully",
		"movie":   buildMovieResponse(movie),
	})
}

// DELETE /api/movies/:id
// @Summary Delete movie
// @Description Delete a movie and its reviews; only its creator may do so
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]string "Movie deleted successfully"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Movie not found"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	movie, ok := h.loadOwnedMovie(c)
	if !ok {
		return
	}

	if err := h.db.Delete(movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete movie"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateMovieCache(movie.ID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Movie deleted successfully"})
}

// POST /api/movies/:id/poster
// @Summary Upload movie poster
// @Description Upload a poster image for a movie; only its creator may do so
// @Tags movies
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param file formData file true "Image file (.jpg, .jpeg, .png, .webp)"
// @Success 200 {object} map[string]interface{} "Poster uploaded"
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Movie not found"
// @Failure 503 {object} map[string]string "Media storage unavailable"
// @Router /movies/{id}/poster [post]
func (h *MovieHandler) UploadPoster(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media storage is unavailable"})
		return
	}

	movie, ok := h.loadOwnedMovie(c)
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
	objectKey := fmt.Sprintf("posters/%s%s", movie.ID, ext)

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.media.UploadImage(c.Request.Context(), file, objectKey, fileHeader.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store poster"})
		return
	}

	movie.ImageURL = h.media.ObjectURL(objectKey)
	if err := h.db.Save(movie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update movie"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateMovieCache(movie.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Poster uploaded",
		"image_url": movie.ImageURL,
	})
}

// loadOwnedMovie fetches the movie from the path and enforces that the acting
// user is its creator. Writes the error response itself when it fails.
func (h *MovieHandler) loadOwnedMovie(c *gin.Context) (*models.Movie, bool) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return nil, false
	}

	var movie models.Movie
	if err := h.db.Where("id = ?", movieID).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load movie"})
		}
		return nil, false
	}

	userID := c.MustGet("userID").(uuid.UUID)
	if movie.UserID == nil || *movie.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can modify this movie"})
		return nil, false
	}

	return &movie, true
}
