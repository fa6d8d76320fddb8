package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tg-autodelete/internal/models"
)

func TestMemoryStoreUnknownChatDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	timer, err := m.GetTimer(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.TimerUnset, timer.Mode)

	window, err := m.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.EmptyWindow(), window)

	whitelisted, err := m.IsWhitelisted(ctx, 1, 99)
	require.NoError(t, err)
	require.False(t, whitelisted)

	size, err := m.WhitelistSize(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestMemoryStoreSetTimer(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.SetTimer(ctx, 1, models.GeneralTimer{Mode: models.TimerDuration, Millis: 900000}))
	timer, err := m.GetTimer(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.GeneralTimer{Mode: models.TimerDuration, Millis: 900000}, timer)

	require.NoError(t, m.SetTimer(ctx, 1, models.GeneralTimer{Mode: models.TimerOff}))
	timer, err = m.GetTimer(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.TimerOff, timer.Mode)
}

func TestMemoryStoreScheduleMergePreservesFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	// End first: start and delay stay unset.
	require.NoError(t, m.MergeScheduleEnd(ctx, 1, 480))
	window, err := m.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.MinuteUnset, window.StartMinute)
	require.Equal(t, 480, window.EndMinute)
	require.Equal(t, models.DurationUnset, window.DeleteMillis)
	require.False(t, window.Configured())

	// Start half merges in without touching the end.
	require.NoError(t, m.MergeScheduleStart(ctx, 1, 1320, 30000))
	window, err = m.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.ScheduleWindow{StartMinute: 1320, EndMinute: 480, DeleteMillis: 30000}, window)
	require.True(t, window.Configured())

	// Timer state is untouched by schedule merges.
	timer, err := m.GetTimer(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.TimerUnset, timer.Mode)
}

func TestMemoryStoreWhitelistIdempotence(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	alreadyPresent, err := m.AddToWhitelist(ctx, 1, 99)
	require.NoError(t, err)
	require.False(t, alreadyPresent)

	alreadyPresent, err = m.AddToWhitelist(ctx, 1, 99)
	require.NoError(t, err)
	require.True(t, alreadyPresent)

	size, err := m.WhitelistSize(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, size)

	wasPresent, err := m.RemoveFromWhitelist(ctx, 1, 99)
	require.NoError(t, err)
	require.True(t, wasPresent)

	wasPresent, err = m.RemoveFromWhitelist(ctx, 1, 99)
	require.NoError(t, err)
	require.False(t, wasPresent)

	whitelisted, err := m.IsWhitelisted(ctx, 1, 99)
	require.NoError(t, err)
	require.False(t, whitelisted)
}

func TestMemoryStoreChatsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.SetTimer(ctx, 1, models.GeneralTimer{Mode: models.TimerOff}))
	_, err := m.AddToWhitelist(ctx, 1, 99)
	require.NoError(t, err)

	timer, err := m.GetTimer(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, models.TimerUnset, timer.Mode)

	whitelisted, err := m.IsWhitelisted(ctx, 2, 99)
	require.NoError(t, err)
	require.False(t, whitelisted)
}
