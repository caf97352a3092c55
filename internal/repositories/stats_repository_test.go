package repositories

import (
	"testing"

	"github.com/pageturn/forum-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUserStatsAggregates(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewPostgresStatsRepository(db)
	reactions := NewPostgresReactionRepository(db)

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	active := seedPost(t, db, author.ID, "active", models.StatusActive)
	seedPost(t, db, author.ID, "draft", models.StatusInactive)
	seedComment(t, db, author.ID, active.ID, "self comment")

	_, err := reactions.Toggle(fan.ID, models.PostTarget(active.ID), models.ReactionLike)
	assert.NoError(t, err)
	_, err = reactions.Toggle(author.ID, models.PostTarget(active.ID), models.ReactionDislike)
	assert.NoError(t, err)

	stats, err := statsRepo.UserStats(author.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.ActivePosts)
	assert.Equal(t, int64(1), stats.TotalComments)
	assert.InDelta(t, 0.5, stats.AvgLikesPerPost, 0.001)
	assert.Equal(t, int64(1), stats.ReactionsGiven)
	assert.Equal(t, int64(0), stats.LikesGiven)
	assert.Equal(t, int64(1), stats.DislikesGiven)
}

func TestSiteCounts(t *testing.T) {
	db := setupTestDB(t)
	statsRepo := NewPostgresStatsRepository(db)

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "a post", models.StatusActive)
	seedComment(t, db, author.ID, post.ID, "a comment")

	counts, err := statsRepo.SiteCounts()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), counts.Users)
	assert.Equal(t, int64(1), counts.Posts)
	assert.Equal(t, int64(1), counts.Comments)
}
