package models

import "time"

// Favorite is a bookmarked post, independent of reactions.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_favorite"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_favorite"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteView is a favorited post with its aggregates and bookmark time.
type FavoriteView struct {
	PostView
	FavoritedAt time.Time `json:"favorited_at"`
}
