package handler

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/timer"
)

// handleStatus handles /status: a read-only projection of the chat's timer,
// schedule window and whitelist size.
func handleStatus(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	private := message.Chat.Type == "private"
	if !gate.CanViewStatus(ctx.Context(), message.Chat.ID, private, actorOf(message)) {
		return reply(ctx, bot, message, "Only group administrators can view auto-deletion settings.")
	}

	chatID := message.Chat.ID

	generalTimer, err := store.GetTimer(ctx.Context(), chatID)
	if err != nil {
		logger.Warningf("Error reading timer for chat %d: %v", chatID, err)
	}
	window, err := store.GetSchedule(ctx.Context(), chatID)
	if err != nil {
		logger.Warningf("Error reading schedule for chat %d: %v", chatID, err)
	}
	whitelistSize, err := store.WhitelistSize(ctx.Context(), chatID)
	if err != nil {
		logger.Warningf("Error reading whitelist size for chat %d: %v", chatID, err)
	}

	msgText := fmt.Sprintf("<b>Auto-deletion settings</b>\n<b>Timer:</b> %s\n<b>Schedule:</b> %s\n<b>Whitelist:</b> %d user(s)",
		timerStatus(generalTimer),
		scheduleStatus(window),
		whitelistSize,
	)

	return reply(ctx, bot, message, msgText)
}

func timerStatus(t models.GeneralTimer) string {
	switch t.Mode {
	case models.TimerOff:
		return "off"
	case models.TimerDuration:
		return timer.FormatDuration(t.Millis)
	default:
		return fmt.Sprintf("default (%s)", timer.FormatDuration(defaultMillis))
	}
}

func scheduleStatus(w models.ScheduleWindow) string {
	if !w.Configured() {
		return "not configured"
	}

	span := fmt.Sprintf("from %s", timer.FormatClock(w.StartMinute))
	if w.EndMinute != models.MinuteUnset {
		span = fmt.Sprintf("%s-%s", timer.FormatClock(w.StartMinute), timer.FormatClock(w.EndMinute))
	}

	state := "inactive"
	if timer.WindowActive(w, timer.MinuteOfDay(time.Now(), resolver.Location())) {
		state = "active"
	}

	return fmt.Sprintf("%s, delete after %s (currently %s)", span, timer.FormatDuration(w.DeleteMillis), state)
}
