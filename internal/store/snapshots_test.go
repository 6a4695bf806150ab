package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradecal/internal/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshots.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testCalendar(t *testing.T, name string) *calendar.Calendar {
	t.Helper()
	spec := calendar.Spec{
		Name:            name,
		TZ:              time.UTC,
		OpenTimes:       []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 9, Minute: 0}}},
		CloseTimes:      []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 17, Minute: 0}}},
		BreakStartTimes: []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 12, Minute: 0}}},
		BreakEndTimes:   []calendar.TimeRule{{Time: calendar.TimeOfDay{Hour: 13, Minute: 0}}},
	}
	c, err := calendar.New(spec, calendar.Options{
		Start: date(2021, time.January, 4),
		End:   date(2021, time.January, 8),
	})
	require.NoError(t, err)
	return c
}

func TestOpen_CreatesDatabase(t *testing.T) {
	s := openTestStore(t)
	assert.NotEmpty(t, s.Path())
}

func TestStore_SaveSnapshot(t *testing.T) {
	s := openTestStore(t)
	cal := testCalendar(t, "TEST")

	snap, err := s.SaveSnapshot(context.Background(), cal)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "TEST", snap.Calendar)
	assert.Equal(t, string(cal.Side()), snap.Side)
	assert.Equal(t, date(2021, time.January, 4), snap.Start)
	assert.Equal(t, date(2021, time.January, 8), snap.End)
	assert.Equal(t, 5, snap.Sessions)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestStore_GetSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	cal := testCalendar(t, "TEST")

	saved, err := s.SaveSnapshot(context.Background(), cal)
	require.NoError(t, err)

	snap, entries, err := s.GetSnapshot(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, snap.ID)
	assert.Equal(t, cal.Schedule(), entries)
}

func TestStore_GetSnapshotMissing(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.GetSnapshot(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_ListSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, testCalendar(t, "AAA"))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, testCalendar(t, "BBB"))
	require.NoError(t, err)

	all, err := s.ListSnapshots(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := s.ListSnapshots(ctx, "AAA")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "AAA", only[0].Calendar)

	none, err := s.ListSnapshots(ctx, "CCC")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_DeleteSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveSnapshot(ctx, testCalendar(t, "TEST"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSnapshot(ctx, saved.ID))

	_, _, err = s.GetSnapshot(ctx, saved.ID)
	require.Error(t, err)

	// Deleting an unknown id is a no-op.
	assert.NoError(t, s.DeleteSnapshot(ctx, saved.ID))
}
