package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T, name string) *DB {
	t.Helper()
	tmp := filepath.Join(os.TempDir(), name)
	t.Cleanup(func() { os.Remove(tmp) })

	database, err := New(tmp)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())
	return database
}

func TestPins_UpsertListDelete(t *testing.T) {
	database := testDB(t, "briefd_test_pins.db")
	ctx := context.Background()

	require.NoError(t, database.UpsertPin(ctx, &Pin{ItemKind: "ticket", ItemID: "101", Pinned: true, Note: "demo friday"}))
	require.NoError(t, database.UpsertPin(ctx, &Pin{ItemKind: "pr", ItemID: "42", Boost: 20}))

	// Upsert on the same item replaces, not duplicates.
	require.NoError(t, database.UpsertPin(ctx, &Pin{ItemKind: "ticket", ItemID: "101", Boost: 5}))

	pins, err := database.ListPins(ctx)
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, "101", pins[0].ItemID)
	assert.False(t, pins[0].Pinned)
	assert.Equal(t, 5, pins[0].Boost)

	require.NoError(t, database.DeletePin(ctx, pins[0].ID))
	pins, err = database.ListPins(ctx)
	require.NoError(t, err)
	assert.Len(t, pins, 1)
}

func TestBriefings_SaveAndFetch(t *testing.T) {
	database := testDB(t, "briefd_test_briefings.db")
	ctx := context.Background()

	b := &Briefing{
		ID:              "run-1",
		DayPart:         "morning",
		Document:        `<tickets count="0" />`,
		TokensUsed:      7,
		TokensRemaining: 1993,
		SectionsKept:    1,
	}
	require.NoError(t, database.SaveBriefing(ctx, b, 30))

	got, err := database.GetBriefing(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "morning", got.DayPart)
	assert.Equal(t, 7, got.TokensUsed)

	latest, err := database.LatestBriefing(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-1", latest.ID)

	list, err := database.ListBriefings(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, list[0].Document, "listing view omits the document body")
}

func TestBriefings_LatestEmpty(t *testing.T) {
	database := testDB(t, "briefd_test_empty.db")

	latest, err := database.LatestBriefing(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestBriefings_PruneKeepsNewest(t *testing.T) {
	database := testDB(t, "briefd_test_prune.db")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, database.SaveBriefing(ctx, &Briefing{ID: id, Document: "doc"}, 2))
	}

	list, err := database.ListBriefings(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = database.GetBriefing(ctx, "a")
	assert.Error(t, err, "oldest briefings are pruned")
}

func TestSettings(t *testing.T) {
	database := testDB(t, "briefd_test_settings.db")

	assert.Equal(t, "2000", database.GetSetting("briefing_capacity", "0"))
	assert.Equal(t, "fallback", database.GetSetting("missing", "fallback"))

	require.NoError(t, database.SetSetting("briefing_capacity", "4000"))
	assert.Equal(t, "4000", database.GetSetting("briefing_capacity", "0"))
}
