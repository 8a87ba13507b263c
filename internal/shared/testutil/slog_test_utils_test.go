package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "dashboard")).WithGroup("req").Info("selected", slog.String("athlete", "Alex Smith"))

		require.Equal(t, 1, handler.Count())
		AssertLogAttr(t, handler, "component", "dashboard")
		AssertLogAttr(t, handler, "req.athlete", "Alex Smith")

		handler.Clear()
		assert.Zero(t, handler.Count())
	})
}

func TestAthleteWorkbooks(t *testing.T) {
	dir := AthleteWorkbooks(t, t.TempDir())

	f, err := excelize.OpenFile(dir + "/After_Game_data.xlsx")
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("After Game")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Date of the game", rows[0][2])
	assert.Equal(t, "Major ACL tear", rows[1][11])
}
