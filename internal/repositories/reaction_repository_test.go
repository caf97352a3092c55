package repositories

import (
	"testing"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTogglePostReactionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	reactor := seedUser(t, db, "reactor")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	// first toggle creates the reaction
	action, err := repo.Toggle(reactor.ID, models.PostTarget(post.ID), models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, action)
	assert.Equal(t, 1, userRating(t, db, author.ID))

	// a different type switches it and applies the weight delta
	action, err = repo.Toggle(reactor.ID, models.PostTarget(post.ID), models.ReactionLove)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionUpdated, action)
	assert.Equal(t, 2, userRating(t, db, author.ID))

	// the same type removes it
	action, err = repo.Toggle(reactor.ID, models.PostTarget(post.ID), models.ReactionLove)
	assert.NoError(t, err)
	assert.Equal(t, models.ReactionRemoved, action)
	assert.Equal(t, 0, userRating(t, db, author.ID))

	var count int64
	db.Model(&models.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleKeepsOneRowPerAuthorAndTarget(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	_, err := repo.Toggle(a.ID, models.PostTarget(post.ID), models.ReactionLike)
	assert.NoError(t, err)
	_, err = repo.Toggle(a.ID, models.PostTarget(post.ID), models.ReactionWow)
	assert.NoError(t, err)
	_, err = repo.Toggle(b.ID, models.PostTarget(post.ID), models.ReactionDislike)
	assert.NoError(t, err)

	reactions, err := repo.ListByTarget(models.PostTarget(post.ID))
	assert.NoError(t, err)
	assert.Len(t, reactions, 2)
}

func TestToggleCommentReactionAdjustsRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	reactor := seedUser(t, db, "reactor")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)
	comment := seedComment(t, db, author.ID, post.ID, "a comment")

	_, err := repo.Toggle(reactor.ID, models.CommentTarget(comment.ID), models.ReactionAngry)
	assert.NoError(t, err)
	assert.Equal(t, -2, userRating(t, db, author.ID))

	err = repo.Remove(reactor.ID, models.CommentTarget(comment.ID))
	assert.NoError(t, err)
	assert.Equal(t, 0, userRating(t, db, author.ID))
}

func TestRemoveMissingReactionIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	err := repo.Remove(author.ID, models.PostTarget(post.ID))
	assert.NoError(t, err)
	assert.Equal(t, 0, userRating(t, db, author.ID))
}
