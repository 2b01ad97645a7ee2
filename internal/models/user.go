package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a registered user of the directory.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(80);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null"`
	EmailKey     string    `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"` // lower-cased Email
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`             // never serialized
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

// BeforeSave keeps EmailKey in sync with Email.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.EmailKey = EmailKey(u.Email)
	return nil
}

// EmailKey returns the form of email used for uniqueness checks.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
