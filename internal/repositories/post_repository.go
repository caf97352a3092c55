package repositories

import (
	"time"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Viewer identifies the caller for visibility decisions. Both fields are
// zero-valued for anonymous requests.
type Viewer struct {
	UserID  *uint
	IsAdmin bool
}

// PostFilters narrows and orders the post listing.
type PostFilters struct {
	Page        int
	PageSize    int
	Sort        string // likes (default) | date | date_asc
	CategoryIDs []uint
	DateFrom    *time.Time
	DateTo      *time.Time
	Status      string
	AuthorID    *uint
}

// IsUnfilteredFeed reports whether the request is a plain first-page feed,
// which is what the home view counter tracks.
func (f PostFilters) IsUnfilteredFeed() bool {
	return f.Page <= 1 && len(f.CategoryIDs) == 0 && f.DateFrom == nil &&
		f.DateTo == nil && f.Status == "" && f.AuthorID == nil
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post, categoryIDs []uint) error
	GetPost(id uint) (*models.Post, error)
	GetPostView(id uint, viewer Viewer) (*models.PostView, error)
	ListPosts(filters PostFilters, viewer Viewer) ([]models.PostView, int64, error)
	SearchPosts(query, sort string, page, pageSize int) ([]models.PostView, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	ReplaceCategories(postID uint, categoryIDs []uint) error
	CategoriesForPost(postID uint) ([]models.Category, error)
	PostsByCategory(categoryID uint) ([]models.Post, error)
	ToggleLock(id, adminID uint) (bool, error)
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a post and attaches its categories
func (r *PostgresPostRepository) CreatePost(post *models.Post, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if post.PublishDate.IsZero() {
			post.PublishDate = time.Now()
		}
		if post.Status == "" {
			post.Status = models.StatusActive
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return attachCategories(tx, post.ID, categoryIDs)
	})
}

func attachCategories(tx *gorm.DB, postID uint, categoryIDs []uint) error {
	for _, cid := range categoryIDs {
		if err := tx.Exec(
			"INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)",
			postID, cid,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetPost retrieves a bare post row by ID
func (r *PostgresPostRepository) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// postRow is the scan target for listing queries.
type postRow struct {
	models.Post
	AuthorLogin string
	AuthorName  string
	NetLikes    int
}

// GetPostView retrieves one post in the enriched listing shape
func (r *PostgresPostRepository) GetPostView(id uint, viewer Viewer) (*models.PostView, error) {
	var row postRow
	err := r.db.Model(&models.Post{}).
		Select("posts.*, users.login AS author_login, users.full_name AS author_name, 0 AS net_likes").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	view, err := r.enrich(row, viewer)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListPosts applies the visibility policy, filters, ordering and pagination,
// and returns the page plus the pre-pagination total.
func (r *PostgresPostRepository) ListPosts(filters PostFilters, viewer Viewer) ([]models.PostView, int64, error) {
	var total int64
	if err := r.baseListQuery(filters, viewer).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.baseListQuery(filters, viewer).
		Select("posts.*, users.login AS author_login, users.full_name AS author_name, COALESCE(lc.net_likes, 0) AS net_likes").
		Joins("LEFT JOIN (SELECT post_id, SUM(" + netLikeCaseSQL + ") AS net_likes FROM reactions WHERE post_id IS NOT NULL GROUP BY post_id) lc ON lc.post_id = posts.id")

	switch filters.Sort {
	case "date":
		q = q.Order("posts.publish_date DESC")
	case "date_asc":
		q = q.Order("posts.publish_date ASC")
	default: // likes
		q = q.Order("COALESCE(lc.net_likes, 0) DESC, posts.publish_date DESC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var rows []postRow
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	views := make([]models.PostView, 0, len(rows))
	for _, row := range rows {
		view, err := r.enrich(row, viewer)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (r *PostgresPostRepository) baseListQuery(filters PostFilters, viewer Viewer) *gorm.DB {
	q := r.db.Model(&models.Post{}).
		Joins("JOIN users ON users.id = posts.author_id")
	q = scopeVisibility(q, filters, viewer)
	if filters.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *filters.AuthorID)
	}
	if len(filters.CategoryIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = posts.id AND pc.category_id IN ?)",
			filters.CategoryIDs,
		)
	}
	if filters.DateFrom != nil {
		q = q.Where("posts.publish_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("posts.publish_date <= ?", *filters.DateTo)
	}
	return q
}

// scopeVisibility applies the three-branch visibility policy:
// admins see the requested status, or everything when none is requested;
// an author browsing their own posts sees all statuses regardless of the
// status argument; everyone else sees active posts only.
func scopeVisibility(q *gorm.DB, filters PostFilters, viewer Viewer) *gorm.DB {
	switch {
	case viewer.IsAdmin:
		if filters.Status != "" {
			q = q.Where("posts.status = ?", filters.Status)
		}
	case filters.AuthorID != nil && viewer.UserID != nil && *viewer.UserID == *filters.AuthorID:
		// owner: all statuses
	default:
		q = q.Where("posts.status = ?", models.StatusActive)
	}
	return q
}

type postAggregates struct {
	LikesCount     int
	DislikesCount  int
	ReactionsCount int
	Rating         int
}

func (r *PostgresPostRepository) enrich(row postRow, viewer Viewer) (models.PostView, error) {
	view := models.PostView{
		Post:        row.Post,
		AuthorLogin: row.AuthorLogin,
		AuthorName:  row.AuthorName,
		Images:      models.ExtractImageRefs(row.Content),
	}

	var agg postAggregates
	err := r.db.Model(&models.Reaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = 'like' THEN 1 ELSE 0 END), 0) AS likes_count, "+
				"COALESCE(SUM(CASE WHEN type = 'dislike' THEN 1 ELSE 0 END), 0) AS dislikes_count, "+
				"COUNT(*) AS reactions_count, "+
				"COALESCE(SUM("+weightCaseSQL+"), 0) AS rating").
		Where("post_id = ?", row.ID).
		Scan(&agg).Error
	if err != nil {
		return view, err
	}
	view.LikesCount = agg.LikesCount
	view.DislikesCount = agg.DislikesCount
	view.ReactionsCount = agg.ReactionsCount
	view.Rating = agg.Rating

	var subscribers int64
	if err := r.db.Model(&models.Subscription{}).Where("post_id = ?", row.ID).Count(&subscribers).Error; err != nil {
		return view, err
	}
	view.SubscribersCount = int(subscribers)

	if viewer.UserID != nil {
		var n int64
		if err := r.db.Model(&models.Subscription{}).
			Where("post_id = ? AND user_id = ?", row.ID, *viewer.UserID).
			Count(&n).Error; err != nil {
			return view, err
		}
		view.Subscribed = n > 0
	}

	cats, err := r.CategoriesForPost(row.ID)
	if err != nil {
		return view, err
	}
	view.Categories = cats
	return view, nil
}

// SearchPosts matches active posts on title or content. Relevance weighs a
// title hit at 3 and a content hit at 1.
func (r *PostgresPostRepository) SearchPosts(query, sort string, page, pageSize int) ([]models.PostView, error) {
	like := "%" + query + "%"
	q := r.db.Model(&models.Post{}).
		Select("posts.*, users.login AS author_login, users.full_name AS author_name, COALESCE(lc.net_likes, 0) AS net_likes, "+
			"(CASE WHEN posts.title LIKE ? THEN 3 ELSE 0 END + CASE WHEN posts.content LIKE ? THEN 1 ELSE 0 END) AS relevance_score",
			like, like).
		Joins("JOIN users ON users.id = posts.author_id").
		Joins("LEFT JOIN (SELECT post_id, SUM("+netLikeCaseSQL+") AS net_likes FROM reactions WHERE post_id IS NOT NULL GROUP BY post_id) lc ON lc.post_id = posts.id").
		Where("posts.status = ?", models.StatusActive).
		Where("posts.title LIKE ? OR posts.content LIKE ?", like, like)

	switch sort {
	case "date":
		q = q.Order("posts.publish_date DESC")
	case "likes":
		q = q.Order("COALESCE(lc.net_likes, 0) DESC")
	default:
		q = q.Order("relevance_score DESC")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var rows []postRow
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(rows))
	for _, row := range rows {
		view, err := r.enrich(row, Viewer{})
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateFields applies a partial update to a post
func (r *PostgresPostRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceCategories drops the post's category links and attaches the new set
func (r *PostgresPostRepository) ReplaceCategories(postID uint, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", postID).Error; err != nil {
			return err
		}
		return attachCategories(tx, postID, categoryIDs)
	})
}

// CategoriesForPost returns the categories linked to a post
func (r *PostgresPostRepository) CategoriesForPost(postID uint) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.
		Joins("JOIN post_categories pc ON pc.category_id = categories.id").
		Where("pc.post_id = ?", postID).
		Find(&cats).Error
	return cats, err
}

// PostsByCategory returns posts linked to a category
func (r *PostgresPostRepository) PostsByCategory(categoryID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Joins("JOIN post_categories pc ON pc.post_id = posts.id").
		Where("pc.category_id = ?", categoryID).
		Find(&posts).Error
	return posts, err
}

// ToggleLock flips the lock flag, recording who locked and when
func (r *PostgresPostRepository) ToggleLock(id, adminID uint) (bool, error) {
	post, err := r.GetPost(id)
	if err != nil {
		return false, err
	}
	locked := !post.Locked
	fields := map[string]interface{}{"locked": locked, "locked_by": nil, "locked_at": nil}
	if locked {
		now := time.Now()
		fields["locked_by"] = adminID
		fields["locked_at"] = now
	}
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return false, err
	}
	return locked, nil
}

// DeletePost removes a post and its dependent rows. The author's denormalized
// rating is decremented by the net reactions that existed on the post and its
// comments first; that adjustment is best effort and never blocks the delete.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	if err := r.adjustAuthorRatingsForDelete(id); err != nil {
		logger.L().Warn("rating adjustment before post delete failed",
			zap.Uint("post_id", id), zap.Error(err))
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM reactions WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// adjustAuthorRatingsForDelete subtracts the net like/dislike sums that are
// about to disappear: the post's own reactions from the post author, and each
// comment's reactions from that comment's author.
func (r *PostgresPostRepository) adjustAuthorRatingsForDelete(postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"UPDATE users SET rating = rating - ("+
				"SELECT COALESCE(SUM("+netLikeCaseSQL+"), 0) FROM reactions WHERE post_id = ?) "+
				"WHERE id = (SELECT author_id FROM posts WHERE id = ?)",
			postID, postID,
		).Error; err != nil {
			return err
		}
		var comments []models.Comment
		if err := tx.Where("post_id = ?", postID).Find(&comments).Error; err != nil {
			return err
		}
		for _, c := range comments {
			if err := tx.Exec(
				"UPDATE users SET rating = rating - ("+
					"SELECT COALESCE(SUM("+netLikeCaseSQL+"), 0) FROM reactions WHERE comment_id = ?) "+
					"WHERE id = ?",
				c.ID, c.AuthorID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
