package repositories

import (
	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// UserFilters narrows and orders the public user listing.
type UserFilters struct {
	Search   string
	Role     string
	Sort     string // rating (default) | login | date
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByLoginOrEmail(loginOrEmail string) (*models.User, error)
	ListUsers(filters UserFilters) ([]models.User, int64, error)
	SearchUsers(query string) ([]models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(id uint, hashed string) error
	DeleteUser(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByLoginOrEmail retrieves a user matching either the login or the email
func (r *PostgresUserRepository) GetUserByLoginOrEmail(loginOrEmail string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("login = ? OR email = ?", loginOrEmail, loginOrEmail).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves users with search, role filter, sorting and pagination.
// The total matching count is computed before pagination.
func (r *PostgresUserRepository) ListUsers(filters UserFilters) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		q = q.Where("LOWER(login) LIKE LOWER(?) OR LOWER(full_name) LIKE LOWER(?)", like, like)
	}
	if filters.Role != "" {
		q = q.Where("role = ?", filters.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case "login":
		q = q.Order("login ASC")
	case "date":
		q = q.Order("created_at DESC")
	default:
		q = q.Order("rating DESC, id DESC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var users []models.User
	err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	return users, total, err
}

// SearchUsers searches for users by login or full name (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	err := r.db.
		Where("LOWER(login) LIKE LOWER(?) OR LOWER(full_name) LIKE LOWER(?)", like, like).
		Order("rating DESC").
		Find(&users).Error
	return users, err
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdatePassword replaces the stored password hash
func (r *PostgresUserRepository) UpdatePassword(id uint, hashed string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hashed).Error
}

// DeleteUser deletes a user by ID
func (r *PostgresUserRepository) DeleteUser(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
