package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ThatPopcorn/rateAmovie/docs"
	"github.com/ThatPopcorn/rateAmovie/server/handlers"
	"github.com/ThatPopcorn/rateAmovie/server/middleware"
	"github.com/ThatPopcorn/rateAmovie/server/services"
	"github.com/ThatPopcorn/rateAmovie/shared/config"
	"github.com/ThatPopcorn/rateAmovie/shared/database"
	utils "github.com/ThatPopcorn/rateAmovie/shared/utils/auth"
	"github.com/ThatPopcorn/rateAmovie/shared/utils/cache"
)

// getIntConfig is a helper function to get integer configuration values
func getIntConfig(key string, defaultValue int) int {
	strValue := config.GetConfig().GetField(key)
	if strValue == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: Could not convert %s value '%s' to int, using default %d", key, strValue, defaultValue)
		return defaultValue
	}

	return intValue
}

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	// Redis is optional; handlers fall back to the database when it is down
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("❌ Redis unavailable, movie caching disabled: %v", err)
	}

	// MinIO is optional; upload endpoints return 503 when it is down
	mediaService, err := services.NewMediaService()
	if err != nil {
		log.Printf("❌ MinIO unavailable, image uploads disabled: %v", err)
	}

	// Periodically purge expired entries from the token blacklist
	sweepInterval := time.Duration(getIntConfig("BlacklistSweepIntervalMinutes", 30)) * time.Minute
	utils.StartBlacklistSweeper(db, sweepInterval)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db)
	movieHandler := handlers.NewMovieHandler(db, mediaService)
	reviewHandler := handlers.NewReviewHandler(db)
	profileHandler := handlers.NewProfileHandler(db, mediaService)

	// Initialize rate limiter
	rateLimiterCleanupTime := 30 * time.Minute
	rateLimiter := middleware.NewRateLimiter(rateLimiterCleanupTime)

	// Rate limiting configs
	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("RateLimitMaxRequests", 100),
		TimeWindow:    time.Duration(getIntConfig("RateLimitTimeWindowSeconds", 60)) * time.Second,
		BlockDuration: time.Duration(getIntConfig("RateLimitBlockDurationMinutes", 15)) * time.Minute,
	}

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("LoginRateLimitMaxAttempts", 10),
		TimeWindow:    time.Duration(getIntConfig("LoginRateLimitWindowSeconds", 60)) * time.Second,
		BlockDuration: time.Duration(getIntConfig("LoginRateLimitBlockMinutes", 15)) * time.Minute,
	}

	registerConfig := middleware.RateLimitConfig{
		MaxRequests:   getIntConfig("RegisterRateLimitMaxAttempts", 5),
		TimeWindow:    time.Duration(getIntConfig("RegisterRateLimitWindowSeconds", 60)) * time.Second,
		BlockDuration: time.Duration(getIntConfig("RegisterRateLimitBlockMinutes", 30)) * time.Minute,
	}

	router := gin.Default()

	// CORS for the frontend
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.GetConfig().FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(rateLimiter.RateLimitMiddleware(generalConfig))

	api := router.Group("/api")

	// Auth endpoints
	api.POST("/auth/register", rateLimiter.RegistrationRateLimitMiddleware(registerConfig), authHandler.Register)
	api.POST("/auth/login", rateLimiter.LoginRateLimitMiddleware(loginConfig), authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Movie endpoints
	api.GET("/movies", movieHandler.GetMovies)
	api.GET("/movies/:id", movieHandler.GetMovie)
	api.POST("/movies", middleware.AuthMiddleware(db), movieHandler.CreateMovie)
	api.PUT("/movies/:id", middleware.AuthMiddleware(db), movieHandler.UpdateMovie)
	api.DELETE("/movies/:id", middleware.AuthMiddleware(db), movieHandler.DeleteMovie)
	api.POST("/movies/:id/poster", middleware.AuthMiddleware(db), movieHandler.UploadPoster)

	// Review endpoints
	api.GET("/movies/:id/reviews", reviewHandler.GetMovieReviews)
	api.POST("/movies/:id/reviews", middleware.AuthMiddleware(db), reviewHandler.CreateReview)
	api.POST("/reviews/:id/like", middleware.AuthMiddleware(db), reviewHandler.LikeReview)

	// Profile endpoints
	api.GET("/profile", middleware.AuthMiddleware(db), profileHandler.GetProfile)
	api.PUT("/profile", middleware.AuthMiddleware(db), profileHandler.UpdateProfile)
	api.POST("/profile/picture", middleware.AuthMiddleware(db), profileHandler.UploadProfilePicture)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "rateamovie",
			"database": "connected",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := config.GetConfig().ServerPort
	log.Printf("rateAmovie server starting on port %s...", port)
	router.Run(":" + port)
}
