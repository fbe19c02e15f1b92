package services

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteAndFavorite(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "learner", false)
	course := testutil.CreateCourse(t, db, "GO-1", nil)
	roadmap := testutil.CreateRoadmap(t, db, "Go", user.ID)
	ctx := context.Background()
	in := CompleteAndFavoriteInput{UserID: user.ID, CourseID: course.ID, RoadmapID: roadmap.ID}

	result, err := CompleteAndFavorite(ctx, db, in)
	require.NoError(t, err)
	assert.True(t, result.Progress.Completed)
	assert.Equal(t, 100, result.Progress.Progress)
	assert.NotNil(t, result.Progress.CompletedAt)
	assert.True(t, result.FavoriteAdded)
	require.NotNil(t, result.Favorite)

	// a second call keeps one row of each
	result, err = CompleteAndFavorite(ctx, db, in)
	require.NoError(t, err)
	assert.False(t, result.FavoriteAdded)

	var progressRows, favoriteRows int64
	require.NoError(t, db.Model(&models.UserProgress{}).Count(&progressRows).Error)
	require.NoError(t, db.Model(&models.Favorite{}).Count(&favoriteRows).Error)
	assert.EqualValues(t, 1, progressRows)
	assert.EqualValues(t, 1, favoriteRows)
}

func TestCompleteAndFavoriteKeepsProgressWhenFavoriteFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "learner", false)
	course := testutil.CreateCourse(t, db, "GO-1", nil)

	result, err := CompleteAndFavorite(context.Background(), db, CompleteAndFavoriteInput{
		UserID: user.ID, CourseID: course.ID, RoadmapID: 4242,
	})
	require.Error(t, err)

	var step *ProgressStep
	require.True(t, errors.As(err, &step))
	assert.Equal(t, "favorite", step.Step)
	require.NotNil(t, result)

	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&progress).Error)
	assert.True(t, progress.Completed)
}
