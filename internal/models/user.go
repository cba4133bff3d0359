// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role carried in a user's session token.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin grants moderation privileges.
	RoleAdmin Role = "admin"
)

// User represents a registered author in the Inkwell application.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Name           string         `json:"name"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	Role           Role           `gorm:"type:varchar(20);default:'user'" json:"role"`
	Enabled        bool           `gorm:"default:true" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`

	// FollowersCount/FollowingCount/IsFollowing are not persisted; computed at query time.
	FollowersCount int  `gorm:"->;-:migration" json:"followers_count"`
	FollowingCount int  `gorm:"->;-:migration" json:"following_count"`
	IsFollowing    bool `gorm:"->;-:migration" json:"is_following"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
