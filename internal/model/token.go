package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"
)

// AuthToken is an opaque bearer token mapped 1:1 to a user. The unique
// index on UserID enforces the 1:1 mapping at the store level.
type AuthToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// BeforeCreate fills in a random token value when none is set
func (t *AuthToken) BeforeCreate(tx *gorm.DB) error {
	if t.Token == "" {
		t.Token = generateSecureToken()
	}
	return nil
}

// IsExpired checks if the token is past its lifetime
func (t *AuthToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// generateSecureToken creates a secure random token string
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
