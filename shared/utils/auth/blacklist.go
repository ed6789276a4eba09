package utils

import (
	"errors"
	"log"
	"time"

	"github.com/ThatPopcorn/rateAmovie/shared/database/models/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlacklistToken inserts a revocation record for the token's jti. The insert
// is idempotent: when two logouts race on the same token, the unique index on
// jti lets exactly one row in and the loser still observes success.
func BlacklistToken(db *gorm.DB, claims *Claims, reason string) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ErrInvalidToken
	}

	entry := auth.BlacklistedToken{
		JTI:           claims.ID,
		UserID:        userID,
		TokenType:     claims.TokenType,
		ExpiresAt:     claims.ExpiresAt.Time,
		BlacklistedAt: time.Now(),
		Reason:        reason,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(&entry)

	if result.Error != nil {
		// Races can still surface as a duplicate key outside the ON CONFLICT
		// path; the revocation is already satisfied in that case.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil
		}
		return result.Error
	}

	return nil
}

// IsTokenBlacklisted reports whether a jti has a revocation record.
// Point lookup on the unique jti index.
func IsTokenBlacklisted(db *gorm.DB, jti string) (bool, error) {
	var entry auth.BlacklistedToken
	err := db.Where("jti = ?", jti).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AuthenticateAccessToken runs the full gate for a presented access token:
// signature, expiry, token type, then the revocation check. On success the
// returned claims carry the acting identity.
func AuthenticateAccessToken(db *gorm.DB, tokenString string) (*Claims, error) {
	claims, err := ValidateAccessJWT(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := IsTokenBlacklisted(db, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// PurgeExpiredBlacklistedTokens removes ledger rows whose copied expiry has
// passed; the tokens they refer to are rejected by the expiry check anyway.
func PurgeExpiredBlacklistedTokens(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at <= ?", time.Now()).Delete(&auth.BlacklistedToken{})
	return result.RowsAffected, result.Error
}

// StartBlacklistSweeper periodically purges expired revocation records so the
// ledger does not grow without bound
func StartBlacklistSweeper(db *gorm.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			purged, err := PurgeExpiredBlacklistedTokens(db)
			if err != nil {
				log.Printf("❌ Blacklist sweep failed: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("🧹 Blacklist sweep removed %d expired entries", purged)
			}
		}
	}()
}
