package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"studyshare/internal/models"
)

func createTestResource(t *testing.T, userID int64, folderID string) *models.Resource {
	t.Helper()
	mime := "application/pdf"
	size := int64(1024)
	resource, err := testStore.CreateResource(context.Background(), CreateResourceParams{
		ID:         newID(t),
		Title:      "title_" + newID(t),
		MimeType:   &mime,
		SizeBytes:  &size,
		FolderID:   folderID,
		Tags:       []string{"test"},
		UploadedBy: userID,
	})
	require.NoError(t, err)
	return resource
}

func TestCreateAndGetResource(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder := createTestFolder(t, user.ID, nil, []string{})

	created := createTestResource(t, user.ID, folder.ID)
	require.Equal(t, folder.ID, created.FolderID)
	require.Equal(t, int64(0), created.Views)
	require.False(t, created.Featured)

	got, err := testStore.GetResourceByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created.Title, got.Title)
	require.Equal(t, []string{"test"}, got.Tags)

	missing, err := testStore.GetResourceByID(ctx, newID(t))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateResourceMissingFolder(t *testing.T) {
	user := createTestUser(t)

	_, err := testStore.CreateResource(context.Background(), CreateResourceParams{
		ID:         newID(t),
		Title:      "stray",
		FolderID:   newID(t),
		UploadedBy: user.ID,
	})
	require.ErrorIs(t, err, ErrResourceFolderMissing)
}

func TestListResourcesFilters(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder := createTestFolder(t, user.ID, nil, []string{})

	first := createTestResource(t, user.ID, folder.ID)
	second := createTestResource(t, user.ID, folder.ID)

	featured := true
	_, err := testStore.UpdateResource(ctx, UpdateResourceParams{ID: second.ID, Featured: &featured})
	require.NoError(t, err)

	byFolder, err := testStore.ListResources(ctx, ListResourcesParams{FolderID: &folder.ID, Limit: 50})
	require.NoError(t, err)
	require.Len(t, byFolder, 2)

	onlyFeatured, err := testStore.ListResources(ctx, ListResourcesParams{
		FolderID: &folder.ID, Featured: &featured, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, onlyFeatured, 1)
	require.Equal(t, second.ID, onlyFeatured[0].ID)

	bySearch, err := testStore.ListResources(ctx, ListResourcesParams{
		FolderID: &folder.ID, Search: first.Title, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, first.ID, bySearch[0].ID)
}

func TestCountResourcesGroupedByFolder(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	a := createTestFolder(t, user.ID, nil, []string{})
	b := createTestFolder(t, user.ID, nil, []string{})
	createTestResource(t, user.ID, a.ID)
	createTestResource(t, user.ID, a.ID)
	createTestResource(t, user.ID, b.ID)

	grouped, err := testStore.CountResourcesGroupedByFolder(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), grouped[a.ID])
	require.Equal(t, int64(1), grouped[b.ID])

	direct, err := testStore.CountResourcesByFolderID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), direct)
}

func TestUpdateResourceAndViews(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder := createTestFolder(t, user.ID, nil, []string{})
	resource := createTestResource(t, user.ID, folder.ID)

	title := "updated title"
	updated, err := testStore.UpdateResource(ctx, UpdateResourceParams{ID: resource.ID, Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)

	require.NoError(t, testStore.IncrementResourceViews(ctx, resource.ID))
	require.NoError(t, testStore.IncrementResourceViews(ctx, resource.ID))

	got, err := testStore.GetResourceByID(ctx, resource.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Views)
}

func TestDeleteResource(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder := createTestFolder(t, user.ID, nil, []string{})
	resource := createTestResource(t, user.ID, folder.ID)

	deleted, err := testStore.DeleteResource(ctx, resource.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = testStore.DeleteResource(ctx, resource.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	exists, err := testStore.ResourceExists(ctx, resource.ID)
	require.NoError(t, err)
	require.False(t, exists)
}
