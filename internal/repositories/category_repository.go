package repositories

import (
	"errors"
	"strings"

	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateTitle is returned when a category with the same title exists.
var ErrDuplicateTitle = errors.New("category with this title already exists")

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CreateCategory(category *models.Category) error
	GetCategoryByID(id uint) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id uint) error
}

// PostgresCategoryRepository implements CategoryRepository for PostgreSQL
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// CreateCategory creates a category; a duplicate title (case-sensitive, after
// trimming) is rejected with ErrDuplicateTitle rather than a silent second row.
func (r *PostgresCategoryRepository) CreateCategory(category *models.Category) error {
	category.Title = strings.TrimSpace(category.Title)
	return r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).Where("title = ?", category.Title).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateTitle
		}
		return tx.Create(category).Error
	})
}

// GetCategoryByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories ordered by title
func (r *PostgresCategoryRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("title").Find(&categories).Error
	return categories, err
}

// UpdateCategory updates an existing category
func (r *PostgresCategoryRepository) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

// DeleteCategory deletes a category and its post links
func (r *PostgresCategoryRepository) DeleteCategory(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}
