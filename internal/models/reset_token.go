package models

import "time"

// PasswordResetToken authorizes exactly one password change. At most one live
// token exists per user: issuing a new one deletes any predecessor, and a
// token is deleted on consumption or on expiry detection.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Token     string    `gorm:"unique;not null" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Expired reports whether the token's expiry lies in the past at the given instant.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
