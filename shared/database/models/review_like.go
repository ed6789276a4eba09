package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLike - like/dislike votes on reviews, one vote per user per review
type ReviewLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID  uuid.UUID `json:"review_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_likes_review_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_likes_review_user"`
	IsLike    bool      `json:"is_like" gorm:"not null"` // true for like, false for dislike
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
