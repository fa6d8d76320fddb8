package timer

import (
	"context"
	"fmt"
	"time"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/storage"
)

// Source identifies which precedence rule produced an effective delay.
type Source int

const (
	SourceOff Source = iota
	SourceCaption
	SourceSchedule
	SourceTimer
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceCaption:
		return "caption"
	case SourceSchedule:
		return "schedule"
	case SourceTimer:
		return "chat timer"
	case SourceDefault:
		return "default"
	default:
		return "off"
	}
}

// Delay is the effective deletion delay resolved for one message.
type Delay struct {
	Off    bool
	Millis int64
	Source Source
}

// Resolver applies the precedence chain for inbound media messages:
// caption annotation, then an active schedule window, then the chat timer,
// then the system default. An explicit Off timer stops the chain, but a
// caption annotation outranks even that.
type Resolver struct {
	store         storage.Store
	defaultMillis int64
	loc           *time.Location
	now           func() time.Time
}

// NewResolver builds a resolver evaluating schedule windows in a fixed
// UTC offset of utcOffsetHours.
func NewResolver(store storage.Store, defaultMillis int64, utcOffsetHours int) *Resolver {
	return &Resolver{
		store:         store,
		defaultMillis: defaultMillis,
		loc:           time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600),
		now:           time.Now,
	}
}

// Resolve returns the effective delay for one media message. Store failures
// are logged and treated as unset state so a flaky backend degrades to the
// system default instead of blocking deletion handling.
func (r *Resolver) Resolve(ctx context.Context, chatID int64, caption string) Delay {
	if millis, ok := FindCaptionDelay(caption); ok {
		return Delay{Millis: millis, Source: SourceCaption}
	}

	window, err := r.store.GetSchedule(ctx, chatID)
	if err != nil {
		logger.Warningf("Error reading schedule for chat %d: %v", chatID, err)
		window = models.EmptyWindow()
	}
	if WindowActive(window, MinuteOfDay(r.now(), r.loc)) {
		return Delay{Millis: window.DeleteMillis, Source: SourceSchedule}
	}

	timer, err := r.store.GetTimer(ctx, chatID)
	if err != nil {
		logger.Warningf("Error reading timer for chat %d: %v", chatID, err)
		timer = models.GeneralTimer{Mode: models.TimerUnset}
	}
	switch timer.Mode {
	case models.TimerOff:
		return Delay{Off: true, Source: SourceOff}
	case models.TimerDuration:
		return Delay{Millis: timer.Millis, Source: SourceTimer}
	}

	return Delay{Millis: r.defaultMillis, Source: SourceDefault}
}

// Location returns the fixed offset used for schedule evaluation.
func (r *Resolver) Location() *time.Location {
	return r.loc
}
