package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenmedia/api-go/models"
)

func TestCreatorApplicationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	creator, err := env.creators.Apply(ctx, "user-1", "user-1@example.com", CreatorApplicationInput{
		DisplayName:  " Studio One ",
		PortfolioURL: "https://example.com/portfolio",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CreatorStatusPending, creator.Status)
	assert.Equal(t, "Studio One", creator.DisplayName)

	_, err = env.creators.Apply(ctx, "user-1", "user-1@example.com", CreatorApplicationInput{DisplayName: "Again"})
	requireKind(t, KindConflict, err)

	_, err = env.creators.RequireApproved(ctx, "user-1", "Only approved creators can post")
	requireKind(t, KindForbidden, err)

	reviewed, err := env.creators.Review(ctx, creator.ID, ReviewCreatorInput{Status: models.CreatorStatusApproved, AdminNotes: "welcome"})
	require.NoError(t, err)
	assert.Equal(t, models.CreatorStatusApproved, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedAt)

	approved, err := env.creators.RequireApproved(ctx, "user-1", "Only approved creators can post")
	require.NoError(t, err)
	assert.Equal(t, creator.ID, approved.ID)
}

func TestCreatorApplicationValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.creators.Apply(t.Context(), "user-1", "", CreatorApplicationInput{DisplayName: "x", PortfolioURL: "not a url"})
	requireKind(t, KindValidation, err)
	assert.Equal(t, "portfolioUrl must be a valid URL", err.(*AppError).Message)
}

func TestReviewCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.creators.Review(ctx, "missing", ReviewCreatorInput{Status: models.CreatorStatusRejected})
	requireKind(t, KindNotFound, err)

	creator, err := env.creators.Apply(ctx, "user-1", "", CreatorApplicationInput{DisplayName: "x"})
	require.NoError(t, err)
	_, err = env.creators.Review(ctx, creator.ID, ReviewCreatorInput{Status: models.CreatorStatusPending})
	requireKind(t, KindValidation, err)
}

func TestListCreators(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	env.approvedCreator(t, "approved-user")
	_, err := env.creators.Apply(ctx, "pending-user", "", CreatorApplicationInput{DisplayName: "Pending"})
	require.NoError(t, err)

	pending, err := env.creators.List(ctx, models.CreatorStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending-user", pending[0].UserID)

	all, err := env.creators.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = env.creators.List(ctx, "banned", 10)
	requireKind(t, KindValidation, err)
}

func TestForUserMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.creators.ForUser(t.Context(), "nobody")
	requireKind(t, KindNotFound, err)
}
