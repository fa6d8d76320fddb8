package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"

	"tg-autodelete/internal/scheduler"
)

// botDeleter adapts the Telegram client to the scheduler's deletion action,
// classifying permanent failures so the scheduler never retries them.
type botDeleter struct {
	bot *telego.Bot
}

func (d botDeleter) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	err := d.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: messageID,
	})
	if err == nil {
		return nil
	}

	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) && apiErr.ErrorCode == 400 {
		desc := strings.ToLower(apiErr.Description)
		if strings.Contains(desc, "message to delete not found") ||
			strings.Contains(desc, "message can't be deleted") {
			return fmt.Errorf("%s: %w", apiErr.Description, scheduler.ErrMessageGone)
		}
	}
	return err
}

// botRoles adapts GetChatMember to the authorization gate's role query.
type botRoles struct {
	bot *telego.Bot
}

func (r botRoles) MemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	member, err := r.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{ID: chatID},
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("error getting chat member: %w", err)
	}
	return member.MemberStatus(), nil
}
