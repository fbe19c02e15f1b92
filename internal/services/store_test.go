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

func TestStoreCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore[models.Category](db)
	ctx := context.Background()

	category := &models.Category{Name: "Cloud"}
	require.NoError(t, store.Create(ctx, category))
	require.NotZero(t, category.ID)

	found, err := store.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cloud", found.Name)

	found.Description = "Cloud platforms"
	require.NoError(t, store.Update(ctx, found))

	rows, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cloud platforms", rows[0].Description)

	exists, err := store.Exists(ctx, "name = ?", "Cloud")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, category.ID))
	_, err = store.FindByID(ctx, category.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(store.Delete(ctx, category.ID), ErrNotFound))
}

func TestStoreTranslatesUniqueViolation(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore[models.Category](db)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Category{Name: "Data"}))
	err := store.Create(ctx, &models.Category{Name: "Data"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStoreReloadsRelationsAfterWrite(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	web := testutil.CreateCategory(t, db, "Web")
	ops := testutil.CreateCategory(t, db, "Ops")
	store := NewStore[models.Roadmap](db, "Category", "User")
	ctx := context.Background()

	roadmap := &models.Roadmap{Title: "Frontend", UserID: owner.ID, CategoryID: &web.ID}
	require.NoError(t, store.Create(ctx, roadmap))
	require.NotNil(t, roadmap.Category)
	assert.Equal(t, "Web", roadmap.Category.Name)
	require.NotNil(t, roadmap.User)
	assert.NotEmpty(t, roadmap.PublicID)

	roadmap.CategoryID = &ops.ID
	require.NoError(t, store.Update(ctx, roadmap))
	assert.Equal(t, "Ops", roadmap.Category.Name)
}

func TestStoreFindWhere(t *testing.T) {
	db := testutil.NewTestDB(t)
	web := testutil.CreateCategory(t, db, "Web")
	testutil.CreateCourse(t, db, "HTML-1", &web.ID)
	testutil.CreateCourse(t, db, "CSS-1", &web.ID)
	testutil.CreateCourse(t, db, "K8S-1", nil)

	rows, err := NewStore[models.Course](db, "Category").FindWhere(context.Background(), "category_id = ?", web.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HTML-1", rows[0].Code)
	assert.Equal(t, "Web", rows[0].Category.Name)
}

func TestCourseDeleteCascadesDocumentsAndNullsNodes(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "owner", false)
	course := testutil.CreateCourse(t, db, "SQL-1", nil)
	require.NoError(t, db.Create(&models.Document{Title: "Guide", URL: "https://example.com", CourseID: course.ID}).Error)
	roadmap := testutil.CreateRoadmap(t, db, "Data", owner.ID)
	node := &models.Node{RoadmapID: roadmap.ID, NodeIdentifier: "n1", CourseID: &course.ID, Data: "{}"}
	require.NoError(t, db.Omit("Course").Create(node).Error)

	require.NoError(t, NewStore[models.Course](db).Delete(context.Background(), course.ID))

	var documents int64
	require.NoError(t, db.Model(&models.Document{}).Where("course_id = ?", course.ID).Count(&documents).Error)
	assert.Zero(t, documents)

	var reloaded models.Node
	require.NoError(t, db.First(&reloaded, node.ID).Error)
	assert.Nil(t, reloaded.CourseID)
}
