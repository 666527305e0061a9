package repositories

import (
	"fmt"

	"github.com/pencraft/blog-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations.
// Same contract as LikeRepository over an independent record set.
type BookmarkRepository interface {
	ToggleBookmark(postID, userID string) (bool, error)
	CountByPostID(postID string) (int64, error)
	CountsByPostIDs(postIDs []string) (map[string]int64, error)
	HasUserBookmarkedPost(postID, userID string) (bool, error)
	BookmarkedPostIDs(userID string, postIDs []string) (map[string]bool, error)
	AllBookmarkedPostIDs(userID string) ([]string, error)
}

// PostgresBookmarkRepository implements BookmarkRepository for PostgreSQL
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository
func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// ToggleBookmark flips the (post, user) bookmark state. See
// PostgresLikeRepository.ToggleLike for the race-safety reasoning; the
// unique index on (post_id, user_id) does the enforcement.
func (r *PostgresBookmarkRepository) ToggleBookmark(postID, userID string) (bool, error) {
	var bookmarked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			bookmarked = false
			return nil
		}

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Bookmark{PostID: postID, UserID: userID})
		if ins.Error != nil {
			return ins.Error
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggling bookmark: %w", err)
	}
	return bookmarked, nil
}

// CountByPostID counts bookmarks for a single post.
func (r *PostgresBookmarkRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Bookmark{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting bookmarks: %w", err)
	}
	return count, nil
}

// CountsByPostIDs counts bookmarks for a set of posts in one grouped query.
func (r *PostgresBookmarkRepository) CountsByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.Model(&models.Bookmark{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting bookmarks per post: %w", err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// HasUserBookmarkedPost checks if a user has bookmarked a specific post
func (r *PostgresBookmarkRepository) HasUserBookmarkedPost(postID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bookmark{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking bookmark state: %w", err)
	}
	return count > 0, nil
}

// BookmarkedPostIDs returns which of the given posts the user has bookmarked.
func (r *PostgresBookmarkRepository) BookmarkedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var bookmarks []models.Bookmark
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("fetching bookmarked posts: %w", err)
	}
	for _, b := range bookmarks {
		result[b.PostID] = true
	}
	return result, nil
}

// AllBookmarkedPostIDs returns every post id the user holds a bookmark for.
func (r *PostgresBookmarkRepository) AllBookmarkedPostIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetching bookmarked post ids: %w", err)
	}
	return ids, nil
}
