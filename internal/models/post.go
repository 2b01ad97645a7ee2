package models

import "time"

// DefaultAuthor is used when a post is created without an author.
const DefaultAuthor = "Anónimo"

// MaxPostLength is the maximum number of characters of a post's content.
const MaxPostLength = 500

// Post represents a message published on the wall.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Author    string    `json:"author" gorm:"type:varchar(80);not null"`
	Content   string    `json:"content" gorm:"type:varchar(2000);not null"` // sized for multi-byte runes
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}
