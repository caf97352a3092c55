package repositories

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCommentsOrderedWorstFirst(t *testing.T) {
	db := setupTestDB(t)
	comments := NewPostgresCommentRepository(db)
	reactions := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	best := seedComment(t, db, author.ID, post.ID, "best")     // love + like = 3
	middle := seedComment(t, db, author.ID, post.ID, "middle") // no reactions = 0
	worst := seedComment(t, db, author.ID, post.ID, "worst")   // angry = -2

	_, err := reactions.Toggle(a.ID, models.CommentTarget(best.ID), models.ReactionLove)
	assert.NoError(t, err)
	_, err = reactions.Toggle(b.ID, models.CommentTarget(best.ID), models.ReactionLike)
	assert.NoError(t, err)
	_, err = reactions.Toggle(a.ID, models.CommentTarget(worst.ID), models.ReactionAngry)
	assert.NoError(t, err)

	views, err := comments.GetCommentsByPost(post.ID)
	assert.NoError(t, err)
	assert.Len(t, views, 3)

	// lowest score first, ties by publish date ascending
	assert.Equal(t, worst.ID, views[0].ID)
	assert.Equal(t, -2, views[0].Score)
	assert.Equal(t, middle.ID, views[1].ID)
	assert.Equal(t, best.ID, views[2].ID)
	assert.Equal(t, 3, views[2].Score)
	assert.Equal(t, 1, views[2].LikesCount)
}

func TestReplyCarriesParentContext(t *testing.T) {
	db := setupTestDB(t)
	comments := NewPostgresCommentRepository(db)

	author := seedUser(t, db, "author")
	replier := seedUser(t, db, "replier")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	longBody := "<p>" + strings.Repeat("x", 200) + "</p>"
	parent := seedComment(t, db, author.ID, post.ID, longBody)

	reply := &models.Comment{
		AuthorID: replier.ID,
		PostID:   post.ID,
		ParentID: &parent.ID,
		Content:  "a reply",
	}
	assert.NoError(t, comments.CreateComment(reply))

	views, err := comments.GetCommentsByPost(post.ID)
	assert.NoError(t, err)
	assert.Len(t, views, 2)

	var replyView *models.CommentView
	for i := range views {
		if views[i].ID == reply.ID {
			replyView = &views[i]
		}
	}
	if assert.NotNil(t, replyView) {
		assert.Equal(t, "author", *replyView.ParentAuthorLogin)
		// excerpt is tag-stripped and capped at 140 characters
		assert.Len(t, *replyView.ParentExcerpt, 140)
		assert.NotContains(t, *replyView.ParentExcerpt, "<p>")
	}
}

func TestParentExcerptKeepsRunesIntact(t *testing.T) {
	db := setupTestDB(t)
	comments := NewPostgresCommentRepository(db)

	author := seedUser(t, db, "author")
	replier := seedUser(t, db, "replier")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)

	// 200 two-byte runes; a byte-wise cap would cut one in half
	parent := seedComment(t, db, author.ID, post.ID, strings.Repeat("é", 200))
	reply := &models.Comment{
		AuthorID: replier.ID,
		PostID:   post.ID,
		ParentID: &parent.ID,
		Content:  "a reply",
	}
	assert.NoError(t, comments.CreateComment(reply))

	views, err := comments.GetCommentsByPost(post.ID)
	assert.NoError(t, err)

	for _, view := range views {
		if view.ID != reply.ID {
			continue
		}
		assert.True(t, utf8.ValidString(*view.ParentExcerpt))
		assert.Equal(t, 140, utf8.RuneCountInString(*view.ParentExcerpt))
	}
}

func TestDeleteCommentAdjustsRatingAndRemovesReactions(t *testing.T) {
	db := setupTestDB(t)
	comments := NewPostgresCommentRepository(db)
	reactions := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	reactor := seedUser(t, db, "reactor")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)
	comment := seedComment(t, db, author.ID, post.ID, "doomed")

	_, err := reactions.Toggle(reactor.ID, models.CommentTarget(comment.ID), models.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, 1, userRating(t, db, author.ID))

	assert.NoError(t, comments.DeleteComment(comment.ID))

	_, err = comments.GetCommentByID(comment.ID)
	assert.Error(t, err)
	var count int64
	db.Model(&models.Reaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, userRating(t, db, author.ID))
}

func TestToggleCommentLock(t *testing.T) {
	db := setupTestDB(t)
	comments := NewPostgresCommentRepository(db)

	admin := seedUser(t, db, "admin")
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)
	comment := seedComment(t, db, author.ID, post.ID, "lockable")

	locked, err := comments.ToggleLock(comment.ID, admin.ID)
	assert.NoError(t, err)
	assert.True(t, locked)

	reloaded, err := comments.GetCommentByID(comment.ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.Locked)
	assert.Equal(t, admin.ID, *reloaded.LockedBy)
	assert.NotNil(t, reloaded.LockedAt)

	locked, err = comments.ToggleLock(comment.ID, admin.ID)
	assert.NoError(t, err)
	assert.False(t, locked)

	reloaded, err = comments.GetCommentByID(comment.ID)
	assert.NoError(t, err)
	assert.False(t, reloaded.Locked)
	assert.Nil(t, reloaded.LockedBy)
}
