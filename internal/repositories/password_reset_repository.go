package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// PasswordResetRepository defines the interface for reset-token operations
type PasswordResetRepository interface {
	CreateToken(userID uint) (string, error)
	FindValidToken(token string) (*models.PasswordResetToken, error)
	ConsumeToken(id uint) error
}

// PostgresPasswordResetRepository implements PasswordResetRepository
type PostgresPasswordResetRepository struct {
	db *gorm.DB
}

// NewPostgresPasswordResetRepository creates a new PostgresPasswordResetRepository
func NewPostgresPasswordResetRepository(db *gorm.DB) *PostgresPasswordResetRepository {
	return &PostgresPasswordResetRepository{db: db}
}

// CreateToken issues an opaque single-use token valid for one hour
func (r *PostgresPasswordResetRepository) CreateToken(userID uint) (string, error) {
	record := models.PasswordResetToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := r.db.Create(&record).Error; err != nil {
		return "", err
	}
	return record.Token, nil
}

// FindValidToken retrieves a non-expired token record
func (r *PostgresPasswordResetRepository) FindValidToken(token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	err := r.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ConsumeToken deletes a used token
func (r *PostgresPasswordResetRepository) ConsumeToken(id uint) error {
	return r.db.Delete(&models.PasswordResetToken{}, id).Error
}
