package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pageturn/forum-backend/internal/models"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func setupNotifierDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Subscription{}, &models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedFanout(t *testing.T, db *gorm.DB) (actor, subscriber models.User, post models.Post) {
	t.Helper()
	actor = models.User{Login: "actor", Email: "actor@example.com"}
	subscriber = models.User{Login: "watcher", Email: "watcher@example.com"}
	assert.NoError(t, db.Create(&actor).Error)
	assert.NoError(t, db.Create(&subscriber).Error)

	post = models.Post{AuthorID: actor.ID, Title: "watched", Content: "x", Status: models.StatusActive, PublishDate: time.Now()}
	assert.NoError(t, db.Create(&post).Error)

	subs := repositories.NewPostgresSubscriptionRepository(db)
	assert.NoError(t, subs.Subscribe(actor.ID, post.ID))
	assert.NoError(t, subs.Subscribe(subscriber.ID, post.ID))
	return actor, subscriber, post
}

func TestNotifySubscribersExcludesActor(t *testing.T) {
	db := setupNotifierDB(t)
	actor, subscriber, post := seedFanout(t, db)

	mailer := &recordingMailer{}
	notifier := NewNotifier(
		repositories.NewPostgresSubscriptionRepository(db),
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
		mailer,
		true,
	)

	notifier.NotifySubscribers(models.NotificationNewComment, post.ID, actor.ID, "New comment")

	var notifications []models.Notification
	assert.NoError(t, db.Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.Equal(t, subscriber.ID, notifications[0].UserID)
	assert.Equal(t, models.NotificationNewComment, notifications[0].Type)
	assert.Equal(t, actor.ID, notifications[0].TriggeredByUserID)
	assert.False(t, notifications[0].IsRead)

	assert.Equal(t, []string{"watcher@example.com"}, mailer.sent)
}

func TestEmailDisabledStillRecordsNotifications(t *testing.T) {
	db := setupNotifierDB(t)
	actor, _, post := seedFanout(t, db)

	mailer := &recordingMailer{}
	notifier := NewNotifier(
		repositories.NewPostgresSubscriptionRepository(db),
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
		mailer,
		false,
	)

	notifier.NotifySubscribers(models.NotificationPostUpdated, post.ID, actor.ID, "Post updated")

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, mailer.sent)
}

func TestMailFailureDoesNotLoseNotifications(t *testing.T) {
	db := setupNotifierDB(t)
	actor, _, post := seedFanout(t, db)

	notifier := NewNotifier(
		repositories.NewPostgresSubscriptionRepository(db),
		repositories.NewPostgresNotificationRepository(db),
		repositories.NewPostgresUserRepository(db),
		&recordingMailer{err: errors.New("smtp down")},
		true,
	)

	notifier.NotifySubscribers(models.NotificationPostUpdated, post.ID, actor.ID, "Post updated")

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
