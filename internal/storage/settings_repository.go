package storage

import (
	"context"
	"errors"

	"tg-autodelete/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository is the MySQL-backed Store. One chat_settings row per
// chat; merges run inside a transaction with a row lock so independent
// schedule commands on the same chat never clobber each other's fields.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// MigrateTable ensures the ChatSettings table exists with the right schema
func (r *SettingsRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ChatSettings{})
}

// get retrieves the settings row for a chat, nil when none exists yet.
func (r *SettingsRepository) get(ctx context.Context, chatID int64) (*models.ChatSettings, error) {
	var settings models.ChatSettings
	result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&settings)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &settings, nil
}

// mutate runs a read-modify-write on a chat's row under a row lock,
// creating the row if the chat has never been configured.
func (r *SettingsRepository) mutate(ctx context.Context, chatID int64, fn func(*models.ChatSettings)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settings models.ChatSettings
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("chat_id = ?", chatID).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = *models.NewChatSettings(chatID)
		} else if err != nil {
			return err
		}

		fn(&settings)
		return tx.Save(&settings).Error
	})
}

func (r *SettingsRepository) GetTimer(ctx context.Context, chatID int64) (models.GeneralTimer, error) {
	settings, err := r.get(ctx, chatID)
	if err != nil || settings == nil {
		return models.GeneralTimer{Mode: models.TimerUnset}, err
	}
	return settings.Timer(), nil
}

func (r *SettingsRepository) SetTimer(ctx context.Context, chatID int64, t models.GeneralTimer) error {
	return r.mutate(ctx, chatID, func(s *models.ChatSettings) {
		s.TimerMode = t.Mode
		s.TimerMillis = t.Millis
	})
}

func (r *SettingsRepository) GetSchedule(ctx context.Context, chatID int64) (models.ScheduleWindow, error) {
	settings, err := r.get(ctx, chatID)
	if err != nil || settings == nil {
		return models.EmptyWindow(), err
	}
	return settings.Schedule(), nil
}

func (r *SettingsRepository) MergeScheduleStart(ctx context.Context, chatID int64, startMinute int, deleteMillis int64) error {
	return r.mutate(ctx, chatID, func(s *models.ChatSettings) {
		s.ScheduleStart = startMinute
		s.ScheduleMillis = deleteMillis
	})
}

func (r *SettingsRepository) MergeScheduleEnd(ctx context.Context, chatID int64, endMinute int) error {
	return r.mutate(ctx, chatID, func(s *models.ChatSettings) {
		s.ScheduleEnd = endMinute
	})
}

func (r *SettingsRepository) IsWhitelisted(ctx context.Context, chatID, userID int64) (bool, error) {
	settings, err := r.get(ctx, chatID)
	if err != nil || settings == nil {
		return false, err
	}
	return settings.IsWhitelisted(userID), nil
}

func (r *SettingsRepository) AddToWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	var alreadyPresent bool
	err := r.mutate(ctx, chatID, func(s *models.ChatSettings) {
		if s.IsWhitelisted(userID) {
			alreadyPresent = true
			return
		}
		s.Whitelist = append(s.Whitelist, userID)
	})
	return alreadyPresent, err
}

func (r *SettingsRepository) RemoveFromWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	var wasPresent bool
	err := r.mutate(ctx, chatID, func(s *models.ChatSettings) {
		if !s.IsWhitelisted(userID) {
			return
		}
		wasPresent = true
		kept := make([]int64, 0, len(s.Whitelist)-1)
		for _, id := range s.Whitelist {
			if id != userID {
				kept = append(kept, id)
			}
		}
		s.Whitelist = kept
	})
	return wasPresent, err
}

func (r *SettingsRepository) WhitelistSize(ctx context.Context, chatID int64) (int, error) {
	settings, err := r.get(ctx, chatID)
	if err != nil || settings == nil {
		return 0, err
	}
	return len(settings.Whitelist), nil
}
