package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/apolo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotsTaskRoundTrip(t *testing.T) {
	store := setupStore(t)
	snaps := NewSnapshots(store, zerolog.Nop())
	ctx := context.Background()

	allDay := true
	tasks := []model.Task{
		{
			ID:         "t1",
			Title:      "Prepare talk",
			Status:     model.StatusDoing,
			Kind:       model.KindTask,
			Priority:   model.PriorityHigh,
			CategoryID: "c1",
			Subtasks:   []model.SubTask{{ID: "s1", Title: "slides", Completed: true}},
			History: []model.HistoryEntry{
				{Timestamp: 1770638400000, Action: "created"},
				{Timestamp: 1770638500000, Action: "status: todo -> doing"},
			},
			CreatedAt: 1770638400000,
			DueDate:   "2026-02-20",
			IsAllDay:  &allDay,
		},
		{
			ID:        "t2",
			Title:     "Call the bank",
			Status:    model.StatusTodo,
			Kind:      model.KindReminder,
			History:   []model.HistoryEntry{{Timestamp: 1770638600000, Action: "created"}},
			CreatedAt: 1770638600000,
		},
	}

	require.NoError(t, snaps.SaveTasks(ctx, tasks))
	assert.Equal(t, tasks, snaps.LoadTasks(ctx))
}

func TestSnapshotsMalformedBlobFallsBackToEmpty(t *testing.T) {
	store := setupStore(t)
	snaps := NewSnapshots(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, KeyTasks, "{not json"))
	require.NoError(t, store.Put(ctx, KeyReminders, "null"))

	tasks := snaps.LoadTasks(ctx)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Empty(t, snaps.LoadReminders(ctx))
	assert.Empty(t, snaps.LoadCategories(ctx), "absent key yields empty collection")
}

func TestSnapshotsNilCollectionSavesEmptyArray(t *testing.T) {
	store := setupStore(t)
	snaps := NewSnapshots(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, snaps.SaveConversations(ctx, nil))
	raw, err := store.Get(ctx, KeyConversations)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestSnapshotsPreferences(t *testing.T) {
	store := setupStore(t)
	snaps := NewSnapshots(store, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, model.DefaultPreferences(), snaps.LoadPreferences(ctx))

	prefs := model.Preferences{
		Language:          "en",
		Theme:             "midnight",
		Accent:            "#10b981",
		Font:              "JetBrains Mono",
		ClassroomClientID: "client-123",
	}
	require.NoError(t, snaps.SavePreferences(ctx, prefs))
	assert.Equal(t, prefs, snaps.LoadPreferences(ctx))

	require.NoError(t, store.Put(ctx, KeyTheme, `"neon"`))
	require.NoError(t, store.Put(ctx, KeyLanguage, `42`))
	got := snaps.LoadPreferences(ctx)
	assert.Equal(t, "oracle", got.Theme, "unknown theme resets to default")
	assert.Equal(t, "es", got.Language, "malformed language resets to default")
	assert.Equal(t, "JetBrains Mono", got.Font, "other keys are unaffected")
}
