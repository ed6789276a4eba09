package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Rating    int       `json:"rating" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_movie"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_movie"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User         `json:"-" gorm:"foreignKey:UserID"`
	Likes []ReviewLike `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}
