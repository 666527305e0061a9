package models

import (
	"time"

	"github.com/pencraft/blog-backend/pkg/readingtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a blog post stored in MongoDB. The views counter is
// mutated only through the atomic single-post read path and never
// decremented. PublishedAt is stamped exactly once, when the post first
// transitions to published.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Content       readingtime.Node   `json:"content" bson:"content"`
	Excerpt       string             `json:"excerpt" bson:"excerpt"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Status        string             `json:"status" bson:"status"`
	FeaturedImage string             `json:"featured_image" bson:"featured_image"`
	AuthorID      string             `json:"author_id" bson:"author_id"`
	Author        string             `json:"author" bson:"author"`
	ReadingTime   int                `json:"reading_time" bson:"reading_time"`
	Views         int64              `json:"views" bson:"views"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
	PublishedAt   *time.Time         `json:"published_at,omitempty" bson:"published_at,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title         string            `json:"title" validate:"required,min=1,max=200"`
	Content       *readingtime.Node `json:"content" validate:"required"`
	Excerpt       string            `json:"excerpt" validate:"required,max=500"`
	Tags          []string          `json:"tags,omitempty"`
	Status        string            `json:"status" validate:"required,oneof=draft published"`
	FeaturedImage string            `json:"featured_image" validate:"required,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Nil fields are left unchanged.
type UpdatePostRequest struct {
	Title         *string           `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content       *readingtime.Node `json:"content,omitempty"`
	Excerpt       *string           `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Tags          *[]string         `json:"tags,omitempty"`
	Status        *string           `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	FeaturedImage *string           `json:"featured_image,omitempty" validate:"omitempty,url"`
}
