package models

import "time"

// Bookmark represents a post bookmarked by a user. Same unique-pair
// invariant as Like, independent lifecycle.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_bookmark"` // MongoDB ObjectID as string
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}
