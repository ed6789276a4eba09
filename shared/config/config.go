package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret            string
	JWTExpireHours       string
	JWTRefreshExpireDays string

	// Server
	ServerPort  string
	FrontendURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts   string
	RegisterRateLimitWindowSeconds string
	RegisterRateLimitBlockMinutes  string

	// Blacklist sweep
	BlacklistSweepIntervalMinutes string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Upload limits
	MaxUploadSizeMB   string
	AllowedImageTypes string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "rateamovie"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours:       getEnv("JWT_EXPIRE_HOURS", "1"),
		JWTRefreshExpireDays: getEnv("JWT_REFRESH_EXPIRE_DAYS", "7"),

		// Server
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "10"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "60"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "15"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts:   getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		RegisterRateLimitWindowSeconds: getEnv("REGISTER_RATE_LIMIT_WINDOW_SECONDS", "60"),
		RegisterRateLimitBlockMinutes:  getEnv("REGISTER_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Blacklist sweep
		BlacklistSweepIntervalMinutes: getEnv("BLACKLIST_SWEEP_INTERVAL_MINUTES", "30"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "rateamovie-media"),

		// Upload limits
		MaxUploadSizeMB:   getEnv("MAX_UPLOAD_SIZE_MB", "5"),
		AllowedImageTypes: getEnv("ALLOWED_IMAGE_TYPES", ".jpg,.jpeg,.png,.webp"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetField returns a configuration field by name
func (c *Config) GetField(key string) string {
	switch key {
	// Database
	case "DBHost":
		return c.DBHost
	case "DBPort":
		return c.DBPort
	case "DBUser":
		return c.DBUser
	case "DBPassword":
		return c.DBPassword
	case "DBName":
		return c.DBName
	case "DBSSLMode":
		return c.DBSSLMode

	// JWT
	case "JWTSecret":
		return c.JWTSecret
	case "JWTExpireHours":
		return c.JWTExpireHours
	case "JWTRefreshExpireDays":
		return c.JWTRefreshExpireDays

	// Rate Limiting
	case "RateLimitMaxRequests":
		return c.RateLimitMaxRequests
	case "RateLimitTimeWindowSeconds":
		return c.RateLimitTimeWindowSeconds
	case "RateLimitBlockDurationMinutes":
		return c.RateLimitBlockDurationMinutes
	case "LoginRateLimitMaxAttempts":
		return c.LoginRateLimitMaxAttempts
	case "LoginRateLimitWindowSeconds":
		return c.LoginRateLimitWindowSeconds
	case "LoginRateLimitBlockMinutes":
		return c.LoginRateLimitBlockMinutes
	case "RegisterRateLimitMaxAttempts":
		return c.RegisterRateLimitMaxAttempts
	case "RegisterRateLimitWindowSeconds":
		return c.RegisterRateLimitWindowSeconds
	case "RegisterRateLimitBlockMinutes":
		return c.RegisterRateLimitBlockMinutes
	case "BlacklistSweepIntervalMinutes":
		return c.BlacklistSweepIntervalMinutes

	default:
		return ""
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetMaxUploadSizeBytes returns the upload limit in bytes
func (c *Config) GetMaxUploadSizeBytes() int64 {
	if value, err := strconv.Atoi(c.MaxUploadSizeMB); err == nil {
		return int64(value) << 20
	}
	return 5 << 20
}
