package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxPostTextLen is the maximum number of characters a post may contain.
const MaxPostTextLen = 160

// Post is a short text entry authored by a user. A post may reply to another
// post; ReplyingToID is nil for top-level posts.
type Post struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Text         string `gorm:"size:160;not null" json:"text"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"author"`
	ReplyingToID *uint  `gorm:"index" json:"replying_to_id"`
	Replies      []Post `gorm:"foreignKey:ReplyingToID" json:"replies,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// RepliesCount is not persisted; computed at query time
	RepliesCount int `gorm:"->;-:migration" json:"replies_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
