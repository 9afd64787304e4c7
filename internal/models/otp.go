package models

import "time"

// PasswordResetOTP holds a one-time numeric code issued for a password
// reset. At most one row per user; requesting a new code replaces the
// previous one.
type PasswordResetOTP struct {
	Base
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Verified  bool      `gorm:"default:false" json:"verified"`
}
