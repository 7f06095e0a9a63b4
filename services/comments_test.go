package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenmedia/api-go/models"
)

func countEvents(t *testing.T, env *testEnv, actorID, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.RateLimitEvent{}).
		Where("actor_id = ? AND action_type = ?", actorID, action).Count(&n).Error)
	return n
}

func TestCreateCommentRecordsEvent(t *testing.T) {
	env := newTestEnv(t)

	comment, err := env.comments.Create(t.Context(), "user-1", CreateCommentInput{
		TitleID:   "title-1",
		EpisodeID: "ep-1",
		Content:   "  great episode  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "great episode", comment.Content)
	require.NotNil(t, comment.EpisodeID)
	assert.Equal(t, "ep-1", *comment.EpisodeID)
	assert.Nil(t, comment.ParentCommentID)
	assert.Equal(t, int64(1), countEvents(t, env, "user-1", models.ActionComment))
}

func TestBannedUserCannotComment(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.bans.Issue(t.Context(), "mod-1", IssueBanInput{UserID: "user-1", Reason: "spam"})
	require.NoError(t, err)

	// The ban is reported even when the input is also invalid.
	_, err = env.comments.Create(t.Context(), "user-1", CreateCommentInput{})
	requireKind(t, KindForbidden, err)
	assert.Equal(t, "You are banned from posting comments", err.(*AppError).Message)
	assert.Zero(t, countEvents(t, env, "user-1", models.ActionComment))
}

func TestCommentRateLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	for i := 0; i < 5; i++ {
		_, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: fmt.Sprintf("comment %d", i)})
		require.NoError(t, err)
	}

	_, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "one more"})
	requireKind(t, KindRateLimited, err)

	env.clock.Advance(time.Minute + time.Second)
	_, err = env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "one more"})
	assert.NoError(t, err)
}

func TestRejectedCommentDoesNotConsumeQuota(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "   "})
	requireKind(t, KindValidation, err)
	assert.Equal(t, "content is required", err.(*AppError).Message)

	_, err = env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: strings.Repeat("a", 1001)})
	requireKind(t, KindValidation, err)
	assert.Equal(t, "content too long (max 1000 characters)", err.(*AppError).Message)

	assert.Zero(t, countEvents(t, env, "user-1", models.ActionComment))
}

func TestDuplicateCommentWithinAMinute(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	in := CreateCommentInput{TitleID: "title-1", Content: "first!"}

	_, err := env.comments.Create(ctx, "user-1", in)
	require.NoError(t, err)

	env.clock.Advance(30 * time.Second)
	_, err = env.comments.Create(ctx, "user-1", in)
	requireKind(t, KindValidation, err)
	assert.Equal(t, "Duplicate comment detected", err.(*AppError).Message)

	// Someone else may say the same thing.
	_, err = env.comments.Create(ctx, "user-2", in)
	assert.NoError(t, err)

	env.clock.Advance(31 * time.Second)
	_, err = env.comments.Create(ctx, "user-1", in)
	assert.NoError(t, err)
}

func TestReplyParentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	parent := env.comment(t, "user-2", "title-1", "parent")

	_, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "reply", ParentCommentID: "missing"})
	requireKind(t, KindValidation, err)

	_, err = env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-2", Content: "reply", ParentCommentID: parent.ID})
	requireKind(t, KindValidation, err)

	reply, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "reply", ParentCommentID: parent.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, parent.ID, *reply.ParentCommentID)
}

func TestListComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	older := env.comment(t, "user-1", "title-1", "older")
	env.clock.Advance(time.Second)
	newer := env.comment(t, "user-2-long-identifier", "title-1", "newer")
	env.clock.Advance(time.Second)
	hidden := env.comment(t, "user-1", "title-1", "hidden")
	require.NoError(t, env.db.Model(hidden).Update("is_hidden", true).Error)
	deleted := env.comment(t, "user-1", "title-1", "deleted")
	require.NoError(t, env.db.Model(deleted).Update("is_deleted", true).Error)
	env.comment(t, "user-1", "title-2", "other title")

	_, err := env.profiles.Upsert(ctx, "user-1", UpdateProfileInput{DisplayName: "Alice"})
	require.NoError(t, err)

	for _, u := range []string{"user-1", "user-3"} {
		_, err := env.reactions.Toggle(ctx, u, ReactInput{CommentID: older.ID, ReactionType: models.ReactionLike})
		require.NoError(t, err)
	}
	_, err = env.reactions.Toggle(ctx, "user-4", ReactInput{CommentID: older.ID, ReactionType: models.ReactionLaugh})
	require.NoError(t, err)

	views, err := env.comments.List(ctx, ListCommentsQuery{TitleID: "title-1", ViewerID: "user-3"})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, newer.ID, views[0].ID)
	assert.Equal(t, "User user-2-l", views[0].DisplayName)
	assert.Nil(t, views[0].UserReaction)
	assert.Zero(t, views[0].TotalReactions)

	assert.Equal(t, older.ID, views[1].ID)
	assert.Equal(t, "Alice", views[1].DisplayName)
	assert.Equal(t, 2, views[1].LikeCount)
	assert.Equal(t, 1, views[1].LaughCount)
	assert.Equal(t, 3, views[1].TotalReactions)
	require.NotNil(t, views[1].UserReaction)
	assert.Equal(t, models.ReactionLike, *views[1].UserReaction)

	_, err = env.comments.List(ctx, ListCommentsQuery{})
	requireKind(t, KindValidation, err)
}

func TestListCommentsByEpisode(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", Content: "about the show"})
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, "user-1", CreateCommentInput{TitleID: "title-1", EpisodeID: "ep-2", Content: "about ep 2"})
	require.NoError(t, err)

	views, err := env.comments.List(ctx, ListCommentsQuery{TitleID: "title-1", EpisodeID: "ep-2"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "about ep 2", views[0].Content)

	views, err = env.comments.List(ctx, ListCommentsQuery{TitleID: "title-1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "about the show", views[0].Content)
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	c := env.comment(t, "user-1", "title-1", "mine")

	requireKind(t, KindForbidden, env.comments.Delete(ctx, "user-2", c.ID))
	requireKind(t, KindNotFound, env.comments.Delete(ctx, "user-1", "missing"))
	requireKind(t, KindValidation, env.comments.Delete(ctx, "user-1", ""))

	require.NoError(t, env.comments.Delete(ctx, "user-1", c.ID))

	var stored models.Comment
	require.NoError(t, env.db.First(&stored, "id = ?", c.ID).Error)
	assert.True(t, stored.IsDeleted)
}
