package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/auth"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/timer"
)

func actorOf(message telego.Message) auth.Actor {
	actor := auth.Actor{}
	if message.From != nil {
		actor.UserID = message.From.ID
	}
	if message.SenderChat != nil {
		actor.SenderChatID = message.SenderChat.ID
	}
	return actor
}

func reply(ctx *th.Context, bot *telego.Bot, message telego.Message, text string) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}

// requireAdmin checks the sender against the authorization gate and answers
// with a rejection when the command is not allowed.
func requireAdmin(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	private := message.Chat.Type == "private"
	if gate.CanMutate(ctx.Context(), message.Chat.ID, private, actorOf(message)) {
		return true, nil
	}
	return false, reply(ctx, bot, message, "Only group administrators can change auto-deletion settings.")
}

// handleSetTimer handles /settimer <duration|off>
func handleSetTimer(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	if len(args) != 1 {
		return reply(ctx, bot, message, "Usage: /settimer &lt;duration|off&gt;\nExample: /settimer 30m")
	}

	ok, err := requireAdmin(ctx, bot, message)
	if !ok {
		return err
	}

	if strings.EqualFold(args[0], "off") {
		if err := store.SetTimer(ctx.Context(), message.Chat.ID, models.GeneralTimer{Mode: models.TimerOff}); err != nil {
			logger.Warningf("Error turning timer off for chat %d: %v", message.Chat.ID, err)
			return reply(ctx, bot, message, "Failed to update settings, please try again later.")
		}
		return reply(ctx, bot, message, "Auto-deletion is now <b>off</b> for this chat.")
	}

	millis, err := timer.ParseDuration(args[0])
	if err != nil {
		return reply(ctx, bot, message, fmt.Sprintf("Invalid duration %q. Use a number followed by s, m or h, e.g. 30s, 5m, 1h.", args[0]))
	}

	if err := store.SetTimer(ctx.Context(), message.Chat.ID, models.GeneralTimer{Mode: models.TimerDuration, Millis: millis}); err != nil {
		logger.Warningf("Error setting timer for chat %d: %v", message.Chat.ID, err)
		return reply(ctx, bot, message, "Failed to update settings, please try again later.")
	}
	return reply(ctx, bot, message, fmt.Sprintf("Media messages will be deleted after <b>%s</b>.", timer.FormatDuration(millis)))
}

// handleSchedule handles /schedule <HH:MM> <duration>: sets the daily
// window start and its deletion delay in one merge.
func handleSchedule(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	if len(args) != 2 {
		return reply(ctx, bot, message, "Usage: /schedule &lt;HH:MM&gt; &lt;duration&gt;\nExample: /schedule 22:00 30s")
	}

	ok, err := requireAdmin(ctx, bot, message)
	if !ok {
		return err
	}

	startMinute, err := timer.ParseClock(args[0])
	if err != nil {
		return reply(ctx, bot, message, fmt.Sprintf("Invalid time %q. Use HH:MM, e.g. 22:00.", args[0]))
	}
	millis, err := timer.ParseDuration(args[1])
	if err != nil {
		return reply(ctx, bot, message, fmt.Sprintf("Invalid duration %q. Use a number followed by s, m or h, e.g. 30s.", args[1]))
	}

	if err := store.MergeScheduleStart(ctx.Context(), message.Chat.ID, startMinute, millis); err != nil {
		logger.Warningf("Error merging schedule start for chat %d: %v", message.Chat.ID, err)
		return reply(ctx, bot, message, "Failed to update settings, please try again later.")
	}
	return reply(ctx, bot, message, fmt.Sprintf("Daily schedule set: from <b>%s</b> media is deleted after <b>%s</b>.",
		timer.FormatClock(startMinute), timer.FormatDuration(millis)))
}

// handleScheduleOff handles /scheduleoff <HH:MM>: sets the daily window end
// without touching the start or delay.
func handleScheduleOff(ctx *th.Context, bot *telego.Bot, message telego.Message, args []string) error {
	if len(args) != 1 {
		return reply(ctx, bot, message, "Usage: /scheduleoff &lt;HH:MM&gt;\nExample: /scheduleoff 08:00")
	}

	ok, err := requireAdmin(ctx, bot, message)
	if !ok {
		return err
	}

	endMinute, err := timer.ParseClock(args[0])
	if err != nil {
		return reply(ctx, bot, message, fmt.Sprintf("Invalid time %q. Use HH:MM, e.g. 08:00.", args[0]))
	}

	if err := store.MergeScheduleEnd(ctx.Context(), message.Chat.ID, endMinute); err != nil {
		logger.Warningf("Error merging schedule end for chat %d: %v", message.Chat.ID, err)
		return reply(ctx, bot, message, "Failed to update settings, please try again later.")
	}
	return reply(ctx, bot, message, fmt.Sprintf("Daily schedule now ends at <b>%s</b>.", timer.FormatClock(endMinute)))
}

// whitelistTarget resolves the user a whitelist command acts on: the author
// of the replied-to message.
func whitelistTarget(message telego.Message) (telego.User, bool) {
	if message.ReplyToMessage == nil || message.ReplyToMessage.From == nil {
		return telego.User{}, false
	}
	return *message.ReplyToMessage.From, true
}

func linkedUserName(user telego.User) string {
	userName := user.FirstName
	if user.LastName != "" {
		userName += " " + user.LastName
	}
	userLink := fmt.Sprintf("tg://user?id=%d", user.ID)
	return fmt.Sprintf("<a href=\"%s\">%s</a>", userLink, userName)
}

// handleWhitelistAdd handles /whitelist_add as a reply to a message
func handleWhitelistAdd(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	target, found := whitelistTarget(message)
	if !found {
		return reply(ctx, bot, message, "Reply to a message from the user you want to whitelist and send /whitelist_add.")
	}

	ok, err := requireAdmin(ctx, bot, message)
	if !ok {
		return err
	}

	alreadyPresent, err := store.AddToWhitelist(ctx.Context(), message.Chat.ID, target.ID)
	if err != nil {
		logger.Warningf("Error whitelisting user %d in chat %d: %v", target.ID, message.Chat.ID, err)
		return reply(ctx, bot, message, "Failed to update settings, please try again later.")
	}
	if alreadyPresent {
		return reply(ctx, bot, message, fmt.Sprintf("%s is already on the whitelist.", linkedUserName(target)))
	}
	return reply(ctx, bot, message, fmt.Sprintf("%s is now exempt from auto-deletion.", linkedUserName(target)))
}

// handleWhitelistRemove handles /whitelist_remove as a reply to a message
func handleWhitelistRemove(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	target, found := whitelistTarget(message)
	if !found {
		return reply(ctx, bot, message, "Reply to a message from the user you want to remove and send /whitelist_remove.")
	}

	ok, err := requireAdmin(ctx, bot, message)
	if !ok {
		return err
	}

	wasPresent, err := store.RemoveFromWhitelist(ctx.Context(), message.Chat.ID, target.ID)
	if err != nil {
		logger.Warningf("Error removing user %d from whitelist in chat %d: %v", target.ID, message.Chat.ID, err)
		return reply(ctx, bot, message, "Failed to update settings, please try again later.")
	}
	if !wasPresent {
		return reply(ctx, bot, message, fmt.Sprintf("%s is not on the whitelist.", linkedUserName(target)))
	}
	return reply(ctx, bot, message, fmt.Sprintf("%s is no longer exempt from auto-deletion.", linkedUserName(target)))
}

// sendHelpMessage sends usage help
func sendHelpMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	helpText := "<b>Auto-deletion bot</b>\n\n" +
		"Media messages posted in this chat are removed after a configurable delay. " +
		"A duration token in the caption (e.g. <code>30s</code>) overrides everything for that message.\n\n" +
		"<b>Commands</b>\n" +
		"/settimer &lt;duration|off&gt; - set or disable the deletion timer\n" +
		"/schedule &lt;HH:MM&gt; &lt;duration&gt; - daily window start and delay\n" +
		"/scheduleoff &lt;HH:MM&gt; - daily window end\n" +
		"/whitelist_add - reply to a user's message to exempt them\n" +
		"/whitelist_remove - reply to a user's message to remove the exemption\n" +
		"/status - show the current configuration\n\n" +
		"Durations are a number followed by s, m or h."

	return reply(ctx, bot, message, helpText)
}
