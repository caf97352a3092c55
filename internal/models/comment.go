package models

import "time"

// Comment represents a comment on a post. ParentID, when set, references
// another comment on the same post (threaded replies).
type Comment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AuthorID    uint       `json:"author_id" gorm:"index"`
	PostID      uint       `json:"post_id" gorm:"index"`
	ParentID    *uint      `json:"parent_id,omitempty" gorm:"index"`
	Content     string     `json:"content" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:10;default:'active'"`
	PublishDate time.Time  `json:"publish_date"`
	Locked      bool       `json:"locked" gorm:"default:false"`
	LockedBy    *uint      `json:"locked_by,omitempty"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
}

// CommentView is the flat listing shape: comment fields plus author login,
// reaction aggregates and enough parent context for the client to render
// "replying to" without a second round trip. The client reassembles the tree
// by parent_id.
type CommentView struct {
	Comment
	AuthorLogin       string  `json:"author_login"`
	Score             int     `json:"score"`
	LikesCount        int     `json:"likes_count"`
	DislikesCount     int     `json:"dislikes_count"`
	ParentAuthorLogin *string `json:"parent_author_login,omitempty"`
	ParentExcerpt     *string `json:"parent_excerpt,omitempty"`
}

// CreateCommentRequest defines the request body for adding a comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content,omitempty"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
