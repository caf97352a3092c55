package models

import "time"

// Reaction types. The UI surfaces only like/dislike but the full set is
// accepted and weighted.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
	ReactionLove    = "love"
	ReactionWow     = "wow"
	ReactionLaugh   = "laugh"
	ReactionSad     = "sad"
	ReactionAngry   = "angry"
)

// ReactionWeights maps each reaction type to its signed weight, shared by
// comment scores and the denormalized user rating.
var ReactionWeights = map[string]int{
	ReactionLike:    1,
	ReactionLove:    2,
	ReactionWow:     1,
	ReactionLaugh:   0,
	ReactionSad:     -1,
	ReactionAngry:   -2,
	ReactionDislike: -1,
}

// ValidReactionType reports whether t is one of the accepted types.
func ValidReactionType(t string) bool {
	_, ok := ReactionWeights[t]
	return ok
}

// Reaction is a typed vote by a user on exactly one of a post or a comment.
// The composite unique indexes enforce at most one row per (author, target)
// at the store level.
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_reaction_author_post;uniqueIndex:idx_reaction_author_comment"`
	PostID    *uint     `json:"post_id,omitempty" gorm:"uniqueIndex:idx_reaction_author_post"`
	CommentID *uint     `json:"comment_id,omitempty" gorm:"uniqueIndex:idx_reaction_author_comment"`
	Type      string    `json:"type" gorm:"size:10"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionTarget names exactly one of a post or a comment.
type ReactionTarget struct {
	PostID    *uint
	CommentID *uint
}

// PostTarget builds a post-directed target.
func PostTarget(postID uint) ReactionTarget {
	return ReactionTarget{PostID: &postID}
}

// CommentTarget builds a comment-directed target.
func CommentTarget(commentID uint) ReactionTarget {
	return ReactionTarget{CommentID: &commentID}
}

// CreateReactionRequest defines the request body for reacting to a target.
// Anything outside the accepted set is coerced by the handler.
type CreateReactionRequest struct {
	Type string `json:"type" validate:"required"`
}

// Toggle outcomes returned to callers for logging/response shaping only.
const (
	ReactionCreated = "created"
	ReactionUpdated = "updated"
	ReactionRemoved = "removed"
)
