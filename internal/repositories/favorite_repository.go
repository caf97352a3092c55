package repositories

import (
	"time"

	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	AddFavorite(userID, postID uint) error
	RemoveFavorite(userID, postID uint) error
	ListFavorites(userID uint, page, pageSize int) ([]models.FavoriteView, error)
}

// PostgresFavoriteRepository implements FavoriteRepository for PostgreSQL
type PostgresFavoriteRepository struct {
	db    *gorm.DB
	posts *PostgresPostRepository
}

// NewPostgresFavoriteRepository creates a new PostgresFavoriteRepository
func NewPostgresFavoriteRepository(db *gorm.DB) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{db: db, posts: NewPostgresPostRepository(db)}
}

// AddFavorite bookmarks a post; favoriting twice is a no-op.
func (r *PostgresFavoriteRepository) AddFavorite(userID, postID uint) error {
	favorite := models.Favorite{UserID: userID, PostID: postID, CreatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
}

// RemoveFavorite removes a bookmark
func (r *PostgresFavoriteRepository) RemoveFavorite(userID, postID uint) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Favorite{}).Error
}

// favoriteRow keeps the scan target flat: gorm fills embedded model fields
// one level deep only.
type favoriteRow struct {
	models.Post
	AuthorLogin string
	AuthorName  string
	FavoritedAt time.Time
}

// ListFavorites returns the user's favorited active posts, newest bookmark
// first, enriched with the standard post aggregates.
func (r *PostgresFavoriteRepository) ListFavorites(userID uint, page, pageSize int) ([]models.FavoriteView, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var rows []favoriteRow
	err := r.db.Model(&models.Favorite{}).
		Select("posts.*, users.login AS author_login, users.full_name AS author_name, favorites.created_at AS favorited_at").
		Joins("JOIN posts ON posts.id = favorites.post_id").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("favorites.user_id = ? AND posts.status = ?", userID, models.StatusActive).
		Order("favorites.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.FavoriteView, 0, len(rows))
	for _, row := range rows {
		view, err := r.posts.enrich(postRow{
			Post:        row.Post,
			AuthorLogin: row.AuthorLogin,
			AuthorName:  row.AuthorName,
		}, Viewer{UserID: &userID})
		if err != nil {
			return nil, err
		}
		views = append(views, models.FavoriteView{PostView: view, FavoritedAt: row.FavoritedAt})
	}
	return views, nil
}
