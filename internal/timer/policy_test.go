package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg-autodelete/internal/models"
)

// fakeStore serves canned settings for a single chat.
type fakeStore struct {
	timer  models.GeneralTimer
	window models.ScheduleWindow
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		timer:  models.GeneralTimer{Mode: models.TimerUnset},
		window: models.EmptyWindow(),
	}
}

func (f *fakeStore) GetTimer(context.Context, int64) (models.GeneralTimer, error) {
	return f.timer, f.err
}

func (f *fakeStore) SetTimer(_ context.Context, _ int64, t models.GeneralTimer) error {
	f.timer = t
	return nil
}

func (f *fakeStore) GetSchedule(context.Context, int64) (models.ScheduleWindow, error) {
	return f.window, f.err
}

func (f *fakeStore) MergeScheduleStart(_ context.Context, _ int64, startMinute int, deleteMillis int64) error {
	f.window.StartMinute = startMinute
	f.window.DeleteMillis = deleteMillis
	return nil
}

func (f *fakeStore) MergeScheduleEnd(_ context.Context, _ int64, endMinute int) error {
	f.window.EndMinute = endMinute
	return nil
}

func (f *fakeStore) IsWhitelisted(context.Context, int64, int64) (bool, error) { return false, nil }
func (f *fakeStore) AddToWhitelist(context.Context, int64, int64) (bool, error) {
	return false, nil
}
func (f *fakeStore) RemoveFromWhitelist(context.Context, int64, int64) (bool, error) {
	return false, nil
}
func (f *fakeStore) WhitelistSize(context.Context, int64) (int, error) { return 0, nil }

// newTestResolver pins the clock to 23:00 in the resolver's UTC+6 offset.
func newTestResolver(store *fakeStore, defaultMillis int64) *Resolver {
	r := NewResolver(store, defaultMillis, 6)
	r.now = func() time.Time {
		return time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC)
	}
	return r
}

func TestResolveCaptionOverridesOffTimer(t *testing.T) {
	store := newFakeStore()
	store.timer = models.GeneralTimer{Mode: models.TimerOff}
	r := newTestResolver(store, 3600000)

	delay := r.Resolve(context.Background(), 1, "check this 30s")
	require.False(t, delay.Off)
	require.Equal(t, int64(30000), delay.Millis)
	require.Equal(t, SourceCaption, delay.Source)
}

func TestResolveActiveScheduleBeatsTimer(t *testing.T) {
	store := newFakeStore()
	store.timer = models.GeneralTimer{Mode: models.TimerDuration, Millis: 900000}
	// 22:00-08:00, active at the pinned 23:00
	store.window = models.ScheduleWindow{StartMinute: 1320, EndMinute: 480, DeleteMillis: 30000}
	r := newTestResolver(store, 3600000)

	delay := r.Resolve(context.Background(), 1, "no annotation")
	require.Equal(t, int64(30000), delay.Millis)
	require.Equal(t, SourceSchedule, delay.Source)
}

func TestResolveInactiveScheduleFallsToTimer(t *testing.T) {
	store := newFakeStore()
	store.timer = models.GeneralTimer{Mode: models.TimerDuration, Millis: 900000}
	// 09:00-17:00, inactive at the pinned 23:00
	store.window = models.ScheduleWindow{StartMinute: 540, EndMinute: 1020, DeleteMillis: 30000}
	r := newTestResolver(store, 3600000)

	delay := r.Resolve(context.Background(), 1, "")
	require.Equal(t, int64(900000), delay.Millis)
	require.Equal(t, SourceTimer, delay.Source)
}

func TestResolveOffTimerStopsChain(t *testing.T) {
	store := newFakeStore()
	store.timer = models.GeneralTimer{Mode: models.TimerOff}
	r := newTestResolver(store, 3600000)

	delay := r.Resolve(context.Background(), 1, "")
	require.True(t, delay.Off)
	require.Equal(t, SourceOff, delay.Source)
}

func TestResolveUnconfiguredUsesDefault(t *testing.T) {
	r := newTestResolver(newFakeStore(), 3600000)

	delay := r.Resolve(context.Background(), 1, "")
	require.False(t, delay.Off)
	require.Equal(t, int64(3600000), delay.Millis)
	require.Equal(t, SourceDefault, delay.Source)
}

func TestResolveStoreErrorDegradesToDefault(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("backend down")
	r := newTestResolver(store, 3600000)

	delay := r.Resolve(context.Background(), 1, "")
	require.False(t, delay.Off)
	require.Equal(t, int64(3600000), delay.Millis)
	require.Equal(t, SourceDefault, delay.Source)
}
