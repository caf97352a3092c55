package repositories

import (
	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// UserStats aggregates a user's activity for the stats endpoint.
type UserStats struct {
	TotalPosts      int64   `json:"total_posts"`
	ActivePosts     int64   `json:"active_posts"`
	AvgLikesPerPost float64 `json:"avg_likes_per_post"`
	TotalComments   int64   `json:"total_comments"`
	ReactionsGiven  int64   `json:"reactions_given"`
	LikesGiven      int64   `json:"likes_given"`
	DislikesGiven   int64   `json:"dislikes_given"`
}

// SiteCounts are the live row counts for the public overview.
type SiteCounts struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
}

// StatsRepository defines the interface for aggregate statistics
type StatsRepository interface {
	UserStats(userID uint) (*UserStats, error)
	SiteCounts() (*SiteCounts, error)
}

// PostgresStatsRepository implements StatsRepository for PostgreSQL
type PostgresStatsRepository struct {
	db *gorm.DB
}

// NewPostgresStatsRepository creates a new PostgresStatsRepository
func NewPostgresStatsRepository(db *gorm.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// UserStats computes the per-user aggregates
func (r *PostgresStatsRepository) UserStats(userID uint) (*UserStats, error) {
	var stats UserStats

	err := r.db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&stats.TotalPosts).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&models.Post{}).
		Where("author_id = ? AND status = ?", userID, models.StatusActive).
		Count(&stats.ActivePosts).Error
	if err != nil {
		return nil, err
	}

	if stats.TotalPosts > 0 {
		var totalLikes int64
		err = r.db.Model(&models.Reaction{}).
			Where("type = ? AND post_id IN (SELECT id FROM posts WHERE author_id = ?)", models.ReactionLike, userID).
			Count(&totalLikes).Error
		if err != nil {
			return nil, err
		}
		stats.AvgLikesPerPost = float64(totalLikes) / float64(stats.TotalPosts)
	}

	err = r.db.Model(&models.Comment{}).Where("author_id = ?", userID).Count(&stats.TotalComments).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.Reaction{}).Where("author_id = ?", userID).Count(&stats.ReactionsGiven).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&models.Reaction{}).
		Where("author_id = ? AND type = ?", userID, models.ReactionLike).
		Count(&stats.LikesGiven).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&models.Reaction{}).
		Where("author_id = ? AND type = ?", userID, models.ReactionDislike).
		Count(&stats.DislikesGiven).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// SiteCounts returns the live row counts
func (r *PostgresStatsRepository) SiteCounts() (*SiteCounts, error) {
	var counts SiteCounts
	if err := r.db.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Post{}).Count(&counts.Posts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Comment{}).Count(&counts.Comments).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}
