package auth

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistedToken records a token identifier (jti) that must be treated as
// invalid before its natural expiry. Rows whose ExpiresAt has passed are inert
// and get purged by the sweeper; hard deletes only, a revocation is never undone.
type BlacklistedToken struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JTI           string    `json:"jti" gorm:"size:36;uniqueIndex;not null"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	TokenType     string    `json:"token_type" gorm:"size:20;not null"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"not null;index"`
	BlacklistedAt time.Time `json:"blacklisted_at" gorm:"not null"`
	Reason        string    `json:"reason" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
