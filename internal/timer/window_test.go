package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg-autodelete/internal/models"
)

func window(start, end int, millis int64) models.ScheduleWindow {
	return models.ScheduleWindow{StartMinute: start, EndMinute: end, DeleteMillis: millis}
}

func TestWindowActiveWrapsMidnight(t *testing.T) {
	// 22:00-08:00
	w := window(1320, 480, 30000)

	require.True(t, WindowActive(w, 23*60))
	require.True(t, WindowActive(w, 3*60))
	require.True(t, WindowActive(w, 1320))
	require.False(t, WindowActive(w, 12*60))
	require.False(t, WindowActive(w, 480))
}

func TestWindowActiveSameDay(t *testing.T) {
	// 09:00-17:00
	w := window(540, 1020, 30000)

	require.True(t, WindowActive(w, 540))
	require.True(t, WindowActive(w, 12*60))
	require.False(t, WindowActive(w, 1020))
	require.False(t, WindowActive(w, 8*60))
	require.False(t, WindowActive(w, 20*60))
}

func TestWindowActiveZeroWidth(t *testing.T) {
	w := window(600, 600, 30000)
	for _, minute := range []int{0, 599, 600, 601, 1439} {
		require.False(t, WindowActive(w, minute))
	}
}

func TestWindowActiveOpenEnded(t *testing.T) {
	w := window(1320, models.MinuteUnset, 30000)

	require.True(t, WindowActive(w, 1320))
	require.True(t, WindowActive(w, 1439))
	require.False(t, WindowActive(w, 1319))
	require.False(t, WindowActive(w, 0))
}

func TestWindowActiveIncomplete(t *testing.T) {
	// End only, no start: never fires.
	endOnly := models.ScheduleWindow{StartMinute: models.MinuteUnset, EndMinute: 480, DeleteMillis: 30000}
	require.False(t, WindowActive(endOnly, 300))

	// Start but no delay: never fires.
	noDelay := models.ScheduleWindow{StartMinute: 1320, EndMinute: 480, DeleteMillis: models.DurationUnset}
	require.False(t, WindowActive(noDelay, 1380))

	require.False(t, WindowActive(models.EmptyWindow(), 720))
}

func TestWindowActiveZeroDelayStillConfigured(t *testing.T) {
	// A configured zero delay is valid window state; suppression happens later.
	w := window(540, 1020, 0)
	require.True(t, WindowActive(w, 600))
}

func TestMinuteOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*3600)
	instant := time.Date(2024, 1, 2, 17, 30, 0, 0, time.UTC)
	require.Equal(t, 23*60+30, MinuteOfDay(instant, loc))

	// Offset pushing past midnight lands on the next day.
	late := time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC)
	require.Equal(t, 2*60, MinuteOfDay(late, loc))
}
