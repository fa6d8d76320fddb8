// Package storage provides the per-chat configuration store contract and its
// in-memory, MySQL and Redis backends. Absent state always reads as unset,
// never as an error, so every operation is safe on a chat that was never
// configured.
package storage

import (
	"context"

	"tg-autodelete/internal/models"
)

// Store is the capability set the auto-deletion engine needs from
// persistence. All operations are keyed by chat id; each logical operation
// is atomic with respect to other configuration operations on the same key.
// The merge operations preserve fields they do not update, matching the two
// independent schedule-setting commands.
type Store interface {
	GetTimer(ctx context.Context, chatID int64) (models.GeneralTimer, error)
	SetTimer(ctx context.Context, chatID int64, t models.GeneralTimer) error

	GetSchedule(ctx context.Context, chatID int64) (models.ScheduleWindow, error)
	MergeScheduleStart(ctx context.Context, chatID int64, startMinute int, deleteMillis int64) error
	MergeScheduleEnd(ctx context.Context, chatID int64, endMinute int) error

	IsWhitelisted(ctx context.Context, chatID, userID int64) (bool, error)
	// AddToWhitelist reports whether the user was already present; adding
	// twice is a no-op.
	AddToWhitelist(ctx context.Context, chatID, userID int64) (alreadyPresent bool, err error)
	// RemoveFromWhitelist reports whether the user had been present.
	RemoveFromWhitelist(ctx context.Context, chatID, userID int64) (wasPresent bool, err error)
	WhitelistSize(ctx context.Context, chatID int64) (int, error)
}
