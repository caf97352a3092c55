package repositories

import (
	"errors"

	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// SQL CASE fragments shared by the listing engine, comment scores and rating
// maintenance. Must stay in step with models.ReactionWeights.
const (
	netLikeCaseSQL = "CASE WHEN type = 'like' THEN 1 WHEN type = 'dislike' THEN -1 ELSE 0 END"
	weightCaseSQL  = "CASE type " +
		"WHEN 'like' THEN 1 " +
		"WHEN 'love' THEN 2 " +
		"WHEN 'wow' THEN 1 " +
		"WHEN 'laugh' THEN 0 " +
		"WHEN 'sad' THEN -1 " +
		"WHEN 'angry' THEN -2 " +
		"WHEN 'dislike' THEN -1 " +
		"ELSE 0 END"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Toggle(authorID uint, target models.ReactionTarget, reactionType string) (string, error)
	Remove(authorID uint, target models.ReactionTarget) error
	ListByTarget(target models.ReactionTarget) ([]models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

func targetScope(q *gorm.DB, authorID uint, target models.ReactionTarget) *gorm.DB {
	q = q.Where("author_id = ?", authorID)
	if target.PostID != nil {
		return q.Where("post_id = ?", *target.PostID)
	}
	return q.Where("comment_id = ?", *target.CommentID)
}

// Toggle creates, switches or removes the caller's reaction on the target:
// no existing row creates one, the same type removes it, a different type
// switches it. The content author's rating is adjusted by the weight delta in
// the same transaction, and the composite unique indexes back the
// at-most-one-row invariant against concurrent toggles.
func (r *PostgresReactionRepository) Toggle(authorID uint, target models.ReactionTarget, reactionType string) (string, error) {
	var action string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := targetScope(tx, authorID, target).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.Reaction{
				AuthorID:  authorID,
				PostID:    target.PostID,
				CommentID: target.CommentID,
				Type:      reactionType,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
			action = models.ReactionCreated
			return adjustOwnerRating(tx, target, models.ReactionWeights[reactionType])
		case err != nil:
			return err
		case existing.Type == reactionType:
			if err := tx.Delete(&models.Reaction{}, existing.ID).Error; err != nil {
				return err
			}
			action = models.ReactionRemoved
			return adjustOwnerRating(tx, target, -models.ReactionWeights[reactionType])
		default:
			if err := tx.Model(&models.Reaction{}).Where("id = ?", existing.ID).
				Update("type", reactionType).Error; err != nil {
				return err
			}
			action = models.ReactionUpdated
			delta := models.ReactionWeights[reactionType] - models.ReactionWeights[existing.Type]
			return adjustOwnerRating(tx, target, delta)
		}
	})
	return action, err
}

// Remove deletes the caller's reaction on the target regardless of type.
// Removing a reaction that does not exist is a no-op.
func (r *PostgresReactionRepository) Remove(authorID uint, target models.ReactionTarget) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := targetScope(tx, authorID, target).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Reaction{}, existing.ID).Error; err != nil {
			return err
		}
		return adjustOwnerRating(tx, target, -models.ReactionWeights[existing.Type])
	})
}

// ListByTarget returns every reaction on a post or comment
func (r *PostgresReactionRepository) ListByTarget(target models.ReactionTarget) ([]models.Reaction, error) {
	var reactions []models.Reaction
	q := r.db.Model(&models.Reaction{})
	if target.PostID != nil {
		q = q.Where("post_id = ?", *target.PostID)
	} else {
		q = q.Where("comment_id = ?", *target.CommentID)
	}
	err := q.Find(&reactions).Error
	return reactions, err
}

// adjustOwnerRating shifts the denormalized rating of the user who authored
// the reacted-to content.
func adjustOwnerRating(tx *gorm.DB, target models.ReactionTarget, delta int) error {
	if delta == 0 {
		return nil
	}
	if target.PostID != nil {
		return tx.Exec(
			"UPDATE users SET rating = rating + ? WHERE id = (SELECT author_id FROM posts WHERE id = ?)",
			delta, *target.PostID,
		).Error
	}
	return tx.Exec(
		"UPDATE users SET rating = rating + ? WHERE id = (SELECT author_id FROM comments WHERE id = ?)",
		delta, *target.CommentID,
	).Error
}
