package models

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	ReleaseDate *time.Time `json:"release_date" gorm:"type:date"`
	ImageURL    string     `json:"image_url" gorm:"size:500"`
	Director    string     `json:"director" gorm:"size:100"`
	Cast        string     `json:"cast" gorm:"type:text"`
	UserID      *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Creator *User    `json:"creator,omitempty" gorm:"foreignKey:UserID"`
	Reviews []Review `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// AverageRating computes the mean star rating over the loaded reviews.
// Returns 0 when the movie has no reviews.
func (m *Movie) AverageRating() float64 {
	if len(m.Reviews) == 0 {
		return 0
	}

	total := 0
	for _, r := range m.Reviews {
		total += r.Rating
	}

	avg := float64(total) / float64(len(m.Reviews))
	// one decimal, matching what the API reports
	return float64(int(avg*10+0.5)) / 10
}
