package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username       string    `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"not null"`
	Bio            string    `json:"bio" gorm:"type:text"`
	ProfilePicture string    `json:"profile_picture" gorm:"size:500"`
	FavoriteGenres string    `json:"favorite_genres" gorm:"size:500"` // comma-separated
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Reviews []Review `json:"-" gorm:"foreignKey:UserID"`
}
