package models

import "time"

// TimerMode states for a chat's general deletion timer.
const (
	// TimerUnset means no timer was ever configured; the system default applies.
	TimerUnset = iota
	// TimerOff disables auto-deletion for the chat.
	TimerOff
	// TimerDuration deletes media after TimerMillis.
	TimerDuration
)

// MinuteUnset marks an unconfigured schedule boundary.
const MinuteUnset = -1

// DurationUnset marks an unconfigured schedule deletion delay. Zero is a
// valid configured value (parses fine, suppressed by the scheduler), so the
// sentinel has to be negative.
const DurationUnset int64 = -1

// GeneralTimer is the per-chat timer setting.
type GeneralTimer struct {
	Mode   int   `json:"mode"`
	Millis int64 `json:"millis"`
}

// ScheduleWindow is the per-chat daily deletion window. The two halves are
// set by independent commands and merged field by field; either may be
// present without the other.
type ScheduleWindow struct {
	// StartMinute and EndMinute are minutes since midnight in the configured
	// fixed offset. EndMinute == MinuteUnset means the window is open-ended.
	StartMinute int `json:"start"`
	EndMinute   int `json:"end"`
	// DeleteMillis is the deletion delay applied while the window is active.
	DeleteMillis int64 `json:"millis"`
}

// EmptyWindow returns a window with no fields configured.
func EmptyWindow() ScheduleWindow {
	return ScheduleWindow{
		StartMinute:  MinuteUnset,
		EndMinute:    MinuteUnset,
		DeleteMillis: DurationUnset,
	}
}

// Configured reports whether the window has both activation fields set.
// A schedule with only an end time (or nothing) never fires.
func (w ScheduleWindow) Configured() bool {
	return w.StartMinute != MinuteUnset && w.DeleteMillis != DurationUnset
}

// ChatSettings is the persisted per-chat configuration record.
type ChatSettings struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChatID int64 `gorm:"uniqueIndex"`

	TimerMode   int
	TimerMillis int64

	ScheduleStart  int
	ScheduleEnd    int
	ScheduleMillis int64

	Whitelist []int64 `gorm:"serializer:json"`
}

// NewChatSettings returns a fresh record with everything unset.
func NewChatSettings(chatID int64) *ChatSettings {
	return &ChatSettings{
		ChatID:         chatID,
		TimerMode:      TimerUnset,
		ScheduleStart:  MinuteUnset,
		ScheduleEnd:    MinuteUnset,
		ScheduleMillis: DurationUnset,
	}
}

// Timer extracts the general timer view.
func (s *ChatSettings) Timer() GeneralTimer {
	return GeneralTimer{Mode: s.TimerMode, Millis: s.TimerMillis}
}

// Schedule extracts the schedule window view.
func (s *ChatSettings) Schedule() ScheduleWindow {
	return ScheduleWindow{
		StartMinute:  s.ScheduleStart,
		EndMinute:    s.ScheduleEnd,
		DeleteMillis: s.ScheduleMillis,
	}
}

// IsWhitelisted reports whether userID is exempt from auto-deletion.
func (s *ChatSettings) IsWhitelisted(userID int64) bool {
	for _, id := range s.Whitelist {
		if id == userID {
			return true
		}
	}
	return false
}
