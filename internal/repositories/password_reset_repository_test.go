package repositories

import (
	"testing"
	"time"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResetTokenLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPasswordResetRepository(db)

	user := seedUser(t, db, "forgetful")

	token, err := repo.CreateToken(user.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	record, err := repo.FindValidToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, record.UserID)

	assert.NoError(t, repo.ConsumeToken(record.ID))

	// consumed tokens are single use
	_, err = repo.FindValidToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPasswordResetRepository(db)

	user := seedUser(t, db, "slow")
	record := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	assert.NoError(t, db.Create(&record).Error)

	_, err := repo.FindValidToken("stale-token")
	assert.Error(t, err)
}
