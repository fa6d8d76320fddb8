package timer

import (
	"time"

	"tg-autodelete/internal/models"
)

// WindowActive reports whether the daily window is active at nowMinute
// (minutes since midnight in the window's fixed offset).
//
// An unset end is treated as +infinity: the window never ends going forward
// from its start. When end is numerically below start the window wraps
// midnight (22:00-08:00). Start equal to end is a zero-width window and
// never active. Incomplete windows (no start or no delay) are never active.
func WindowActive(w models.ScheduleWindow, nowMinute int) bool {
	if !w.Configured() {
		return false
	}

	s := w.StartMinute
	e := w.EndMinute

	if e == models.MinuteUnset {
		return nowMinute >= s
	}
	if s <= e {
		// end is exclusive; s == e is an empty interval
		return nowMinute >= s && nowMinute < e
	}
	return nowMinute >= s || nowMinute < e
}

// MinuteOfDay converts a wall-clock instant to minutes since midnight in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
