package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start starts the bot handler
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize initializes the bot and webhook
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, *WebhookServer, error) {
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultDebugLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)

	setCommands(ctx, bot)

	// Delete any existing webhook
	err = bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	// Set fixed secret token based on bot token
	secretToken := "secure_webhook_token_" + cfg.Bot.Token[len(cfg.Bot.Token)-6:]

	bh, server, err := SetupWebhook(ctx, bot, cfg, secretToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup webhook: %w", err)
	}

	return &BotService{
		Bot:     bot,
		Handler: bh,
	}, server, nil
}

// setCommands registers the bot command menu
func setCommands(ctx context.Context, bot *telego.Bot) {
	commands := []telego.BotCommand{
		{Command: "settimer", Description: "Set the media deletion timer (e.g. 30m) or turn it off"},
		{Command: "schedule", Description: "Set the daily window start and its deletion delay"},
		{Command: "scheduleoff", Description: "Set the daily window end"},
		{Command: "whitelist_add", Description: "Exempt the author of the replied-to message"},
		{Command: "whitelist_remove", Description: "Remove the author of the replied-to message from the whitelist"},
		{Command: "status", Description: "Show the chat's auto-deletion configuration"},
		{Command: "help", Description: "Show usage help"},
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		logger.Warningf("Failed to set bot commands: %v", err)
	}
}
