package database

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventJournal(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	// Establish a cursor past everything earlier tests journaled.
	existing, err := testStore.GetEventsSince(ctx, 0)
	require.NoError(t, err)
	var cursor int64
	for _, e := range existing {
		if e.ID > cursor {
			cursor = e.ID
		}
	}

	require.NoError(t, testStore.LogEvent(ctx, user.ID, "folder.created", map[string]string{"id": "f1"}))
	require.NoError(t, testStore.LogEvent(ctx, user.ID, "folder.deleted", map[string]string{"id": "f1"}))

	events, err := testStore.GetEventsSince(ctx, cursor)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "folder.created", events[0].EventType)
	require.Equal(t, "folder.deleted", events[1].EventType)
	require.Less(t, events[0].ID, events[1].ID)

	var stored struct {
		EventType string            `json:"event_type"`
		Payload   map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(events[0].Payload, &stored))
	require.Equal(t, "folder.created", stored.EventType)
	require.Equal(t, "f1", stored.Payload["id"])

	// Cursor past the end yields nothing.
	after, err := testStore.GetEventsSince(ctx, events[1].ID)
	require.NoError(t, err)
	require.Empty(t, after)
}
