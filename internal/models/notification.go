package models

import "time"

// Notification event types.
const (
	NotificationPostUpdated = "post_updated"
	NotificationNewComment  = "new_comment"
)

// Notification is a per-subscriber record produced by the fan-out.
type Notification struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"index"`
	Type              string    `json:"type" gorm:"size:30"`
	PostID            uint      `json:"post_id" gorm:"index"`
	TriggeredByUserID uint      `json:"triggered_by_user_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt         time.Time `json:"created_at" gorm:"index"`
}

// NotificationView joins in the post title and the actor's login.
type NotificationView struct {
	Notification
	PostTitle        string `json:"post_title"`
	TriggeredByLogin string `json:"triggered_by_login"`
}
