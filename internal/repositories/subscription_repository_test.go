package repositories

import (
	"testing"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSubscriberIDsExcludesTriggeringUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	author := seedUser(t, db, "author")
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	assert.NoError(t, repo.Subscribe(a.ID, post.ID))
	assert.NoError(t, repo.Subscribe(b.ID, post.ID))
	assert.NoError(t, repo.Subscribe(a.ID, post.ID)) // idempotent

	ids, err := repo.SubscriberIDs(post.ID, a.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)
}

func TestListByUserCarriesPostTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author.ID, "followed post", models.StatusActive)

	assert.NoError(t, repo.Subscribe(reader.ID, post.ID))

	views, err := repo.ListByUser(reader.ID)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "followed post", views[0].PostTitle)

	assert.NoError(t, repo.Unsubscribe(reader.ID, post.ID))
	views, err = repo.ListByUser(reader.ID)
	assert.NoError(t, err)
	assert.Empty(t, views)
}

func TestMarkAsReadIsScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	actor := seedUser(t, db, "actor")
	owner := seedUser(t, db, "owner")
	intruder := seedUser(t, db, "intruder")
	post := seedPost(t, db, actor.ID, "a post", models.StatusActive)

	notification := &models.Notification{
		UserID:            owner.ID,
		Type:              models.NotificationNewComment,
		PostID:            post.ID,
		TriggeredByUserID: actor.ID,
		Message:           "New comment",
	}
	assert.NoError(t, repo.CreateNotification(notification))

	// someone else cannot mark it read
	assert.NoError(t, repo.MarkAsRead(notification.ID, intruder.ID))
	unread, err := repo.UnreadCount(owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	assert.NoError(t, repo.MarkAsRead(notification.ID, owner.ID))
	unread, err = repo.UnreadCount(owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListNotificationsJoinsContext(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	actor := seedUser(t, db, "actor")
	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, actor.ID, "noisy post", models.StatusActive)

	read := &models.Notification{
		UserID: owner.ID, Type: models.NotificationPostUpdated,
		PostID: post.ID, TriggeredByUserID: actor.ID, Message: "updated", IsRead: true,
	}
	unread := &models.Notification{
		UserID: owner.ID, Type: models.NotificationNewComment,
		PostID: post.ID, TriggeredByUserID: actor.ID, Message: "commented",
	}
	assert.NoError(t, repo.CreateNotification(read))
	assert.NoError(t, repo.CreateNotification(unread))

	views, err := repo.ListByUser(owner.ID, 1, 20, false)
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "noisy post", views[0].PostTitle)
	assert.Equal(t, "actor", views[0].TriggeredByLogin)

	views, err = repo.ListByUser(owner.ID, 1, 20, true)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "commented", views[0].Message)
}
