package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})

	return database
}

func TestAppendAndGetLatestReading(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, database.Append("/livingroom", base,
		map[string]any{"health": float64(700)}))
	require.NoError(t, database.Append("/livingroom", base.Add(time.Minute),
		map[string]any{"health": float64(650), "temperature": []any{21.5, 0.5}}))

	latest, err := database.GetLatestReading("/livingroom")
	require.NoError(t, err)

	assert.Equal(t, "/livingroom", latest.SensorPath)
	assert.True(t, latest.CollectedAt.Equal(base.Add(time.Minute)))
	assert.Equal(t, float64(650), latest.Fields["health"])
	assert.Equal(t, []any{21.5, 0.5}, latest.Fields["temperature"])
}

func TestGetLatestReadingNoData(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetLatestReading("/nowhere")
	assert.ErrorIs(t, err, ErrNoReadings)
}

func TestGetReadingsRangeAndLimit(t *testing.T) {
	database := newTestDB(t)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.NoError(t, database.Append("/livingroom", base.Add(time.Duration(i)*time.Minute),
			map[string]any{"health": float64(i)}))
	}

	// Full range, newest first.
	readings, err := database.GetReadings("/livingroom", base, base.Add(time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, readings, 10)
	assert.Equal(t, float64(9), readings[0].Fields["health"])

	// Limit caps the result.
	readings, err = database.GetReadings("/livingroom", base, base.Add(time.Hour), 3)
	require.NoError(t, err)
	assert.Len(t, readings, 3)

	// Window excludes readings outside [start, end].
	readings, err = database.GetReadings("/livingroom",
		base.Add(2*time.Minute), base.Add(4*time.Minute), 100)
	require.NoError(t, err)
	assert.Len(t, readings, 3)

	// Unknown sensor yields nothing.
	readings, err = database.GetReadings("/attic", base, base.Add(time.Hour), 100)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestListSensors(t *testing.T) {
	database := newTestDB(t)

	sensors, err := database.ListSensors()
	require.NoError(t, err)
	assert.Empty(t, sensors)

	now := time.Now().UTC()
	require.NoError(t, database.Append("/livingroom", now, map[string]any{"health": 1.0}))
	require.NoError(t, database.Append("/bedroom", now, map[string]any{"health": 2.0}))
	require.NoError(t, database.Append("/livingroom", now.Add(time.Second), map[string]any{"health": 3.0}))

	sensors, err = database.ListSensors()
	require.NoError(t, err)
	assert.Equal(t, []string{"/bedroom", "/livingroom"}, sensors)
}

func TestCleanOldData(t *testing.T) {
	database := newTestDB(t)

	now := time.Now().UTC()

	require.NoError(t, database.Append("/livingroom", now.Add(-48*time.Hour), map[string]any{"health": 1.0}))
	require.NoError(t, database.Append("/livingroom", now, map[string]any{"health": 2.0}))

	require.NoError(t, database.CleanOldData(24*time.Hour))

	readings, err := database.GetReadings("/livingroom", now.Add(-72*time.Hour), now.Add(time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 2.0, readings[0].Fields["health"])
}
