package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"studyshare/internal/models"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	_, err := testStore.CreateUser(ctx, CreateUserParams{
		Username:     user.Username,
		PasswordHash: "hash",
		Role:         models.RoleStudent,
	})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestGetUserLookups(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	byName, err := testStore.GetUserByUsername(ctx, user.Username)
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, user.ID, byName.ID)

	byID, err := testStore.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, user.Username, byID.Username)

	missing, err := testStore.GetUserByUsername(ctx, "nobody_"+newID(t))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	updated, err := testStore.UpdateUserRole(ctx, user.ID, models.RoleTech)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, models.RoleTech, updated.Role)

	gone, err := testStore.UpdateUserRole(ctx, -1, models.RoleAdmin)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	token := "refresh_" + newID(t)
	err := testStore.CreateSession(ctx, CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: token,
		UserAgent:    "go-test",
		ClientIP:     "127.0.0.1",
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := testStore.GetUserByRefreshToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, user.ID, got.ID)

	require.NoError(t, testStore.DeleteSessionByRefreshToken(ctx, token))

	got, err = testStore.GetUserByRefreshToken(ctx, token)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestExpiredSessionIsNotReturned(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	token := "expired_" + newID(t)
	err := testStore.CreateSession(ctx, CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: token,
		ExpiresAt:    time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	got, err := testStore.GetUserByRefreshToken(ctx, token)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteAllSessionsForUser(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	for i := 0; i < 2; i++ {
		err := testStore.CreateSession(ctx, CreateSessionParams{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: "multi_" + newID(t),
			ExpiresAt:    time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
	}

	sessions, err := testStore.ListSessionsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	require.NoError(t, testStore.DeleteAllSessionsForUser(ctx, user.ID))

	sessions, err = testStore.ListSessionsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestDeleteSessionByIDRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	intruder := createTestUser(t)

	sessionID := uuid.New()
	err := testStore.CreateSession(ctx, CreateSessionParams{
		ID:           sessionID,
		UserID:       owner.ID,
		RefreshToken: "owned_" + newID(t),
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// Someone else's delete is a no-op.
	require.NoError(t, testStore.DeleteSessionByID(ctx, sessionID, intruder.ID))
	sessions, err := testStore.ListSessionsForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	require.NoError(t, testStore.DeleteSessionByID(ctx, sessionID, owner.ID))
	sessions, err = testStore.ListSessionsForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
