// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Chirp application. The email address is
// the login identifier and must be unique. Passwords are stored as bcrypt
// hashes only and are never serialized.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Name        string         `gorm:"not null" json:"name"`
	Password    string         `gorm:"not null" json:"-"`
	AvatarURL   string         `gorm:"not null;default:''" json:"avatar_url"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool           `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
