package repositories

import (
	"time"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const parentExcerptLen = 140

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPost(postID uint) ([]models.CommentView, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	ToggleLock(id, adminID uint) (bool, error)
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if comment.PublishDate.IsZero() {
		comment.PublishDate = time.Now()
	}
	if comment.Status == "" {
		comment.Status = models.StatusActive
	}
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

type commentRow struct {
	models.Comment
	AuthorLogin       string
	Score             int
	LikesCount        int
	DislikesCount     int
	ParentContent     *string
	ParentAuthorLogin *string
}

// GetCommentsByPost returns the post's comments as a flat list annotated with
// reaction counts and a weighted score, ordered score ascending then publish
// date ascending (worst-first). Each row carries the parent's
// author and a tag-stripped excerpt for reply context.
func (r *PostgresCommentRepository) GetCommentsByPost(postID uint) ([]models.CommentView, error) {
	var rows []commentRow
	err := r.db.Raw(`
		SELECT c.*, u.login AS author_login,
			COALESCE((SELECT SUM(`+weightCaseSQL+`) FROM reactions l WHERE l.comment_id = c.id), 0) AS score,
			(SELECT COUNT(*) FROM reactions l2 WHERE l2.comment_id = c.id AND l2.type = 'like') AS likes_count,
			(SELECT COUNT(*) FROM reactions l3 WHERE l3.comment_id = c.id AND l3.type = 'dislike') AS dislikes_count,
			p.content AS parent_content,
			pu.login AS parent_author_login
		FROM comments c
		JOIN users u ON u.id = c.author_id
		LEFT JOIN comments p ON p.id = c.parent_id
		LEFT JOIN users pu ON pu.id = p.author_id
		WHERE c.post_id = ?
		ORDER BY score ASC, c.publish_date ASC`, postID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(rows))
	for _, row := range rows {
		view := models.CommentView{
			Comment:           row.Comment,
			AuthorLogin:       row.AuthorLogin,
			Score:             row.Score,
			LikesCount:        row.LikesCount,
			DislikesCount:     row.DislikesCount,
			ParentAuthorLogin: row.ParentAuthorLogin,
		}
		if row.ParentContent != nil {
			excerpt := models.StripTags(*row.ParentContent)
			// cap by characters, not bytes, so multi-byte runes stay intact
			if runes := []rune(excerpt); len(runes) > parentExcerptLen {
				excerpt = string(runes[:parentExcerptLen])
			}
			view.ParentExcerpt = &excerpt
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateFields applies a partial update to a comment
func (r *PostgresCommentRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(fields).Error
}

// ToggleLock flips the lock flag, recording who locked and when
func (r *PostgresCommentRepository) ToggleLock(id, adminID uint) (bool, error) {
	comment, err := r.GetCommentByID(id)
	if err != nil {
		return false, err
	}
	locked := !comment.Locked
	fields := map[string]interface{}{"locked": locked, "locked_by": nil, "locked_at": nil}
	if locked {
		now := time.Now()
		fields["locked_by"] = adminID
		fields["locked_at"] = now
	}
	if err := r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return false, err
	}
	return locked, nil
}

// DeleteComment removes a comment and its reactions. The author's rating is
// decremented by the comment's net likes first; the adjustment is best effort
// and never blocks the delete.
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	if err := r.db.Exec(
		"UPDATE users SET rating = rating - ("+
			"SELECT COALESCE(SUM("+netLikeCaseSQL+"), 0) FROM reactions WHERE comment_id = ?) "+
			"WHERE id = (SELECT author_id FROM comments WHERE id = ?)",
		id, id,
	).Error; err != nil {
		logger.L().Warn("rating adjustment before comment delete failed",
			zap.Uint("comment_id", id), zap.Error(err))
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}
