// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post in the Inkwell application.
type Post struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"not null" json:"title"`
	Content    string `gorm:"type:text;not null" json:"content"`
	AuthorID   uint   `gorm:"not null;index" json:"author_id"`
	Author     User   `gorm:"foreignKey:AuthorID" json:"author"`
	Tags       []Tag  `gorm:"many2many:post_tags" json:"tags"`
	CoverImage string `json:"cover_image"`
	// ViewCount is incremented unconditionally on fetch; concurrent reads may
	// undercount, which is accepted imprecision rather than a correctness target.
	ViewCount uint           `gorm:"not null;default:0" json:"view_count"`
	Published bool           `gorm:"default:true;index" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// LikesCount, BookmarksCount and CommentsCount are not persisted; computed at query time.
	LikesCount     int `gorm:"->;-:migration" json:"likes_count"`
	BookmarksCount int `gorm:"->;-:migration" json:"bookmarks_count"`
	CommentsCount  int `gorm:"->;-:migration" json:"comments_count"`
	// Liked/Bookmarked indicate whether the current requesting user has the
	// post in the corresponding relation (computed).
	Liked      bool `gorm:"->;-:migration" json:"liked"`
	Bookmarked bool `gorm:"->;-:migration" json:"bookmarked"`
}

// Tag is a label attached to posts, shared across authors.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}
