package repositories

import (
	"time"

	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	Subscribe(userID, postID uint) error
	Unsubscribe(userID, postID uint) error
	ListByUser(userID uint) ([]models.SubscriptionView, error)
	SubscriberIDs(postID, excludeUserID uint) ([]uint, error)
}

// PostgresSubscriptionRepository implements SubscriptionRepository for PostgreSQL
type PostgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewPostgresSubscriptionRepository(db *gorm.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

// Subscribe opts the user into a post's notifications; idempotent.
func (r *PostgresSubscriptionRepository) Subscribe(userID, postID uint) error {
	sub := models.Subscription{UserID: userID, PostID: postID, CreatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
}

// Unsubscribe removes the subscription
func (r *PostgresSubscriptionRepository) Unsubscribe(userID, postID uint) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Subscription{}).Error
}

// ListByUser returns the user's subscriptions with post titles
func (r *PostgresSubscriptionRepository) ListByUser(userID uint) ([]models.SubscriptionView, error) {
	var views []models.SubscriptionView
	err := r.db.Model(&models.Subscription{}).
		Select("subscriptions.*, posts.title AS post_title").
		Joins("JOIN posts ON posts.id = subscriptions.post_id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC").
		Scan(&views).Error
	return views, err
}

// SubscriberIDs returns the ids of everyone subscribed to the post except the
// excluded (triggering) user.
func (r *PostgresSubscriptionRepository) SubscriberIDs(postID, excludeUserID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Subscription{}).
		Where("post_id = ? AND user_id != ?", postID, excludeUserID).
		Pluck("user_id", &ids).Error
	return ids, err
}
