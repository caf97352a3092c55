package repositories

import (
	"testing"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGetUserByLoginOrEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	user := seedUser(t, db, "reader")

	byLogin, err := repo.GetUserByLoginOrEmail("reader")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	byEmail, err := repo.GetUserByLoginOrEmail("reader@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetUserByLoginOrEmail("nobody")
	assert.Error(t, err)
}

func TestListUsersDefaultsToRatingOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	low := seedUser(t, db, "low")
	high := seedUser(t, db, "high")
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", high.ID).Update("rating", 10).Error)
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", low.ID).Update("rating", 1).Error)

	users, total, err := repo.ListUsers(UserFilters{})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "high", users[0].Login)
	assert.Equal(t, "low", users[1].Login)
}

func TestListUsersSearchAndRoleFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	seedUser(t, db, "bookworm")
	admin := seedUser(t, db, "librarian")
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Update("role", models.RoleAdmin).Error)

	users, total, err := repo.ListUsers(UserFilters{Search: "BOOK"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bookworm", users[0].Login)

	users, total, err = repo.ListUsers(UserFilters{Role: models.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "librarian", users[0].Login)
}

func TestSearchUsersMatchesFullName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	user := seedUser(t, db, "jdoe")
	assert.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("full_name", "Jane Doe").Error)
	seedUser(t, db, "other")

	users, err := repo.SearchUsers("jane")
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "jdoe", users[0].Login)
}

func TestUpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	user := seedUser(t, db, "changer")
	assert.NoError(t, repo.UpdatePassword(user.ID, "newhash"))

	reloaded, err := repo.GetUserByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "newhash", reloaded.Password)
}
