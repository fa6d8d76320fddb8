package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/auth"
	"tg-autodelete/internal/config"
	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/scheduler"
	"tg-autodelete/internal/storage"
	"tg-autodelete/internal/timer"
)

var (
	// Global configuration
	globalConfig *config.Config

	store         storage.Store
	resolver      *timer.Resolver
	sched         *scheduler.Scheduler
	gate          *auth.Gate
	defaultMillis int64
)

// Initialize wires the handler with configuration and the settings store.
// defaultDelayMillis is the validated system default deletion delay.
func Initialize(cfg *config.Config, st storage.Store, defaultDelayMillis int64) {
	globalConfig = cfg
	store = st
	defaultMillis = defaultDelayMillis
	resolver = timer.NewResolver(st, defaultDelayMillis, cfg.Autodelete.UtcOffsetHours)
}

// SetupMessageHandlers configures all bot message handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	sched = scheduler.New(botDeleter{bot: bot})
	gate = auth.NewGate(botRoles{bot: bot}, globalConfig.Autodelete.StatusRequiresAdmin)

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("message-handler")

		if message.Text != "" && strings.HasPrefix(message.Text, "/") {
			return handleCommand(ctx, bot, message)
		}
		if isMediaMessage(message) {
			return handleMediaMessage(ctx, message)
		}
		return nil
	})
}

// isMediaMessage reports whether the message carries a media payload subject
// to auto-deletion.
func isMediaMessage(message telego.Message) bool {
	return len(message.Photo) > 0 ||
		message.Video != nil ||
		message.Animation != nil ||
		message.Document != nil ||
		message.Audio != nil ||
		message.Voice != nil ||
		message.VideoNote != nil ||
		message.Sticker != nil
}

// handleMediaMessage resolves the effective delay for an inbound media
// message and arms a deletion timer. The whitelist exempts an author from
// configuration-driven deletion only; a caption annotation is an explicit
// per-message request and always wins.
func handleMediaMessage(ctx *th.Context, message telego.Message) error {
	if message.Chat.Type == "private" {
		return nil
	}

	chatID := message.Chat.ID
	delay := resolver.Resolve(ctx.Context(), chatID, message.Caption)
	if delay.Off {
		logger.Debugf("Auto-deletion off for chat %d, keeping message %d", chatID, message.MessageID)
		return nil
	}

	if delay.Source != timer.SourceCaption && message.From != nil {
		whitelisted, err := store.IsWhitelisted(ctx.Context(), chatID, message.From.ID)
		if err != nil {
			logger.Warningf("Error checking whitelist for user %d in chat %d: %v", message.From.ID, chatID, err)
		}
		if whitelisted {
			logger.Debugf("User %d is whitelisted in chat %d, keeping message %d", message.From.ID, chatID, message.MessageID)
			return nil
		}
	}

	sched.Schedule(chatID, message.MessageID, delay)
	return nil
}

// handleCommand dispatches slash commands. Unknown commands are ignored so
// the bot stays quiet in chats shared with other bots.
func handleCommand(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	fields := strings.Fields(message.Text)
	command := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	args := fields[1:]

	switch command {
	case "settimer":
		return handleSetTimer(ctx, bot, message, args)
	case "schedule":
		return handleSchedule(ctx, bot, message, args)
	case "scheduleoff":
		return handleScheduleOff(ctx, bot, message, args)
	case "whitelist_add":
		return handleWhitelistAdd(ctx, bot, message)
	case "whitelist_remove":
		return handleWhitelistRemove(ctx, bot, message)
	case "status":
		return handleStatus(ctx, bot, message)
	case "help":
		return sendHelpMessage(ctx, bot, message)
	}
	return nil
}
