package repositories

import (
	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ListByUser(userID uint, page, pageSize int, unreadOnly bool) ([]models.NotificationView, error)
	MarkAsRead(notificationID, userID uint) error
	UnreadCount(userID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser returns the recipient's notifications, newest first, joined with
// the post title and the triggering user's login.
func (r *postgresNotificationRepository) ListByUser(userID uint, page, pageSize int, unreadOnly bool) ([]models.NotificationView, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	q := r.db.Model(&models.Notification{}).
		Select("notifications.*, posts.title AS post_title, users.login AS triggered_by_login").
		Joins("JOIN posts ON posts.id = notifications.post_id").
		Joins("JOIN users ON users.id = notifications.triggered_by_user_id").
		Where("notifications.user_id = ?", userID)
	if unreadOnly {
		q = q.Where("notifications.is_read = ?", false)
	}

	var views []models.NotificationView
	err := q.Order("notifications.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&views).Error
	return views, err
}

// MarkAsRead flags a notification as read; scoped to the owner so users
// cannot touch each other's notifications.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
