package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ThatPopcorn/rateAmovie/shared/config"
)

type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

// MovieCacheData caches the computed movie detail payload, including the
// aggregated rating, so hot movie pages skip the review aggregation query
type MovieCacheData struct {
	Detail        json.RawMessage `json:"detail"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
	CachedAt      time.Time       `json:"cached_at"`
}

var (
	globalCacheManager *CacheManager
	MovieDetailTTL     = 5 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance, or nil when
// Redis is unavailable (callers fall back to the database)
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// GenerateMovieKey generates the cache key for a movie's detail payload
func GenerateMovieKey(movieID uuid.UUID) string {
	return fmt.Sprintf("movie:%s:detail", movieID)
}

// SetMovieCache caches a movie's detail payload
func (cm *CacheManager) SetMovieCache(movieID uuid.UUID, data *MovieCacheData) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	data.CachedAt = time.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	return cm.client.Set(cm.ctx, GenerateMovieKey(movieID), jsonData, MovieDetailTTL).Err()
}

// GetMovieCache retrieves a movie's cached detail payload; a miss returns nil
func (cm *CacheManager) GetMovieCache(movieID uuid.UUID) (*MovieCacheData, error) {
	if cm == nil || cm.client == nil {
		return nil, fmt.Errorf("cache manager not initialized")
	}

	jsonData, err := cm.client.Get(cm.ctx, GenerateMovieKey(movieID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var data MovieCacheData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %v", err)
	}

	return &data, nil
}

// InvalidateMovieCache drops a movie's cached payload after a write
// (new review, movie update, poster change)
func (cm *CacheManager) InvalidateMovieCache(movieID uuid.UUID) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	return cm.client.Del(cm.ctx, GenerateMovieKey(movieID)).Err()
}

// Close closes the Redis connection
func (cm *CacheManager) Close() error {
	if cm == nil || cm.client == nil {
		return nil
	}
	return cm.client.Close()
}
