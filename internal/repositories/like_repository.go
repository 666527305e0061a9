package repositories

import (
	"fmt"

	"github.com/pencraft/blog-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// ToggleLike flips the (post, user) like state and reports the
	// resulting state.
	ToggleLike(postID, userID string) (bool, error)
	CountByPostID(postID string) (int64, error)
	CountsByPostIDs(postIDs []string) (map[string]int64, error)
	HasUserLikedPost(postID, userID string) (bool, error)
	// LikedPostIDs returns, for one page of post ids, the subset the user
	// has liked. One query per page, not one per post.
	LikedPostIDs(userID string, postIDs []string) (map[string]bool, error)
	// AllLikedPostIDs returns every post id the user has liked, newest first.
	AllLikedPostIDs(userID string) ([]string, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike removes the like row if present, otherwise inserts it. Both
// steps are conditional on the unique (post_id, user_id) pair inside one
// transaction: a racing duplicate insert is absorbed by ON CONFLICT DO
// NOTHING and a racing delete affects zero rows, so concurrent toggles
// converge without ever holding a duplicate record.
func (r *PostgresLikeRepository) ToggleLike(postID, userID string) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{PostID: postID, UserID: userID})
		if ins.Error != nil {
			return ins.Error
		}
		// Zero rows affected means a concurrent toggle inserted the pair
		// first; either way the record exists now.
		liked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggling like: %w", err)
	}
	return liked, nil
}

// CountByPostID counts likes for a single post.
func (r *PostgresLikeRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}
	return count, nil
}

// CountsByPostIDs counts likes for a set of posts in one grouped query.
func (r *PostgresLikeRepository) CountsByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting likes per post: %w", err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking like state: %w", err)
	}
	return count > 0, nil
}

// LikedPostIDs returns which of the given posts the user has liked.
func (r *PostgresLikeRepository) LikedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var likes []models.Like
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("fetching liked posts: %w", err)
	}
	for _, l := range likes {
		result[l.PostID] = true
	}
	return result, nil
}

// AllLikedPostIDs returns every post id the user holds a like record for.
func (r *PostgresLikeRepository) AllLikedPostIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetching liked post ids: %w", err)
	}
	return ids, nil
}
