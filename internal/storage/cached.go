package storage

import (
	"context"

	"tg-autodelete/internal/models"
)

// CachedStore fronts a persistent backend with the in-memory store for the
// per-message read path (timer and schedule). Writes go to the backend first
// and drop the cache entry so the next read reloads it. Whitelist operations
// pass straight through; both persistent backends answer membership cheaply
// and a cached copy of the set would complicate merge semantics.
type CachedStore struct {
	cache   *MemoryStore
	backend Store
}

func NewCachedStore(backend Store) *CachedStore {
	return &CachedStore{
		cache:   NewMemoryStore(),
		backend: backend,
	}
}

// load pulls a chat's timer and schedule from the backend into the cache.
func (c *CachedStore) load(ctx context.Context, chatID int64) error {
	timer, err := c.backend.GetTimer(ctx, chatID)
	if err != nil {
		return err
	}
	window, err := c.backend.GetSchedule(ctx, chatID)
	if err != nil {
		return err
	}

	settings := models.NewChatSettings(chatID)
	settings.TimerMode = timer.Mode
	settings.TimerMillis = timer.Millis
	settings.ScheduleStart = window.StartMinute
	settings.ScheduleEnd = window.EndMinute
	settings.ScheduleMillis = window.DeleteMillis
	c.cache.Put(settings)
	return nil
}

func (c *CachedStore) GetTimer(ctx context.Context, chatID int64) (models.GeneralTimer, error) {
	if !c.cache.Has(chatID) {
		if err := c.load(ctx, chatID); err != nil {
			return models.GeneralTimer{Mode: models.TimerUnset}, err
		}
	}
	return c.cache.GetTimer(ctx, chatID)
}

func (c *CachedStore) SetTimer(ctx context.Context, chatID int64, t models.GeneralTimer) error {
	if err := c.backend.SetTimer(ctx, chatID, t); err != nil {
		return err
	}
	c.cache.Drop(chatID)
	return nil
}

func (c *CachedStore) GetSchedule(ctx context.Context, chatID int64) (models.ScheduleWindow, error) {
	if !c.cache.Has(chatID) {
		if err := c.load(ctx, chatID); err != nil {
			return models.EmptyWindow(), err
		}
	}
	return c.cache.GetSchedule(ctx, chatID)
}

func (c *CachedStore) MergeScheduleStart(ctx context.Context, chatID int64, startMinute int, deleteMillis int64) error {
	if err := c.backend.MergeScheduleStart(ctx, chatID, startMinute, deleteMillis); err != nil {
		return err
	}
	c.cache.Drop(chatID)
	return nil
}

func (c *CachedStore) MergeScheduleEnd(ctx context.Context, chatID int64, endMinute int) error {
	if err := c.backend.MergeScheduleEnd(ctx, chatID, endMinute); err != nil {
		return err
	}
	c.cache.Drop(chatID)
	return nil
}

func (c *CachedStore) IsWhitelisted(ctx context.Context, chatID, userID int64) (bool, error) {
	return c.backend.IsWhitelisted(ctx, chatID, userID)
}

func (c *CachedStore) AddToWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	return c.backend.AddToWhitelist(ctx, chatID, userID)
}

func (c *CachedStore) RemoveFromWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	return c.backend.RemoveFromWhitelist(ctx, chatID, userID)
}

func (c *CachedStore) WhitelistSize(ctx context.Context, chatID int64) (int, error) {
	return c.backend.WhitelistSize(ctx, chatID)
}
