package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg-autodelete/internal/timer"
)

// fakeDeleter records deletion calls and fails according to failWith.
type fakeDeleter struct {
	mu       sync.Mutex
	calls    []int
	failWith error
}

func (d *fakeDeleter) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, messageID)
	return d.failWith
}

func (d *fakeDeleter) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func TestScheduleFiresOnce(t *testing.T) {
	deleter := &fakeDeleter{}
	s := New(deleter)

	s.Schedule(1, 42, timer.Delay{Millis: 10, Source: timer.SourceTimer})
	require.Equal(t, int64(1), s.Pending())

	require.Eventually(t, func() bool {
		return deleter.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return s.Pending() == 0
	}, time.Second, 5*time.Millisecond)

	// Nothing re-fires.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, deleter.callCount())
}

func TestScheduleOffDoesNothing(t *testing.T) {
	deleter := &fakeDeleter{}
	s := New(deleter)

	s.Schedule(1, 42, timer.Delay{Off: true, Source: timer.SourceOff})
	require.Equal(t, int64(0), s.Pending())

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, deleter.callCount())
}

func TestScheduleSuppressesZeroDelay(t *testing.T) {
	deleter := &fakeDeleter{}
	s := New(deleter)

	s.Schedule(1, 42, timer.Delay{Millis: 0, Source: timer.SourceCaption})
	require.Equal(t, int64(0), s.Pending())

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, deleter.callCount())
}

func TestScheduleNeverRetries(t *testing.T) {
	for name, failure := range map[string]error{
		"permanent": fmt.Errorf("message to delete not found: %w", ErrMessageGone),
		"transient": errors.New("network timeout"),
	} {
		t.Run(name, func(t *testing.T) {
			deleter := &fakeDeleter{failWith: failure}
			s := New(deleter)

			s.Schedule(1, 42, timer.Delay{Millis: 10, Source: timer.SourceTimer})

			require.Eventually(t, func() bool {
				return deleter.callCount() == 1
			}, time.Second, 5*time.Millisecond)

			time.Sleep(50 * time.Millisecond)
			require.Equal(t, 1, deleter.callCount())
			require.Equal(t, int64(0), s.Pending())
		})
	}
}

func TestScheduleIndependentTimersPerMessage(t *testing.T) {
	deleter := &fakeDeleter{}
	s := New(deleter)

	for id := 1; id <= 3; id++ {
		s.Schedule(1, id, timer.Delay{Millis: 10, Source: timer.SourceDefault})
	}
	require.Equal(t, int64(3), s.Pending())

	require.Eventually(t, func() bool {
		return deleter.callCount() == 3 && s.Pending() == 0
	}, time.Second, 5*time.Millisecond)

	deleter.mu.Lock()
	defer deleter.mu.Unlock()
	require.ElementsMatch(t, []int{1, 2, 3}, deleter.calls)
}
