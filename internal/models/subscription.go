package models

import "time"

// Subscription is a user's opt-in to notifications about a post's activity.
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_subscription"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_subscription"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionView carries the subscribed post's title for listings.
type SubscriptionView struct {
	Subscription
	PostTitle string `json:"post_title"`
}
