package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pageturn/forum-backend/internal/models"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Favorite{},
		&models.Subscription{},
		&models.Notification{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, login string) *models.User {
	t.Helper()
	user := &models.User{
		Login:    login,
		Email:    fmt.Sprintf("%s@example.com", login),
		Password: "hash",
		FullName: login,
		Role:     models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", login, err)
	}
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "content of " + title,
		Status:      status,
		PublishDate: time.Now(),
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post %s: %v", title, err)
	}
	return post
}

func seedComment(t *testing.T, db *gorm.DB, authorID, postID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		AuthorID:    authorID,
		PostID:      postID,
		Content:     content,
		Status:      models.StatusActive,
		PublishDate: time.Now(),
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	return comment
}

func userRating(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", userID, err)
	}
	return user.Rating
}
