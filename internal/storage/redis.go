package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/models"
)

// mergeRetries bounds optimistic retries when concurrent schedule commands
// hit the same chat key.
const mergeRetries = 3

// RedisStore keeps three records per chat: JSON timer and schedule values
// and a native set for the whitelist. Schedule merges run under WATCH so a
// concurrent start/end command on the same chat cannot drop the other's
// fields.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func timerKey(chatID int64) string     { return fmt.Sprintf("autodelete:timer:%d", chatID) }
func scheduleKey(chatID int64) string  { return fmt.Sprintf("autodelete:schedule:%d", chatID) }
func whitelistKey(chatID int64) string { return fmt.Sprintf("autodelete:whitelist:%d", chatID) }

func (r *RedisStore) GetTimer(ctx context.Context, chatID int64) (models.GeneralTimer, error) {
	timer := models.GeneralTimer{Mode: models.TimerUnset}

	data, err := r.client.Get(ctx, timerKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return timer, nil
	}
	if err != nil {
		return timer, err
	}

	if err := json.Unmarshal([]byte(data), &timer); err != nil {
		return models.GeneralTimer{Mode: models.TimerUnset}, fmt.Errorf("corrupt timer record for chat %d: %w", chatID, err)
	}
	return timer, nil
}

func (r *RedisStore) SetTimer(ctx context.Context, chatID int64, t models.GeneralTimer) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, timerKey(chatID), data, 0).Err()
}

func (r *RedisStore) GetSchedule(ctx context.Context, chatID int64) (models.ScheduleWindow, error) {
	data, err := r.client.Get(ctx, scheduleKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.EmptyWindow(), nil
	}
	if err != nil {
		return models.EmptyWindow(), err
	}

	window := models.EmptyWindow()
	if err := json.Unmarshal([]byte(data), &window); err != nil {
		return models.EmptyWindow(), fmt.Errorf("corrupt schedule record for chat %d: %w", chatID, err)
	}
	return window, nil
}

// mergeSchedule applies fn to the current schedule record under WATCH,
// retrying on write conflicts.
func (r *RedisStore) mergeSchedule(ctx context.Context, chatID int64, fn func(*models.ScheduleWindow)) error {
	key := scheduleKey(chatID)

	merge := func(tx *redis.Tx) error {
		window := models.EmptyWindow()
		data, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			if err := json.Unmarshal([]byte(data), &window); err != nil {
				return fmt.Errorf("corrupt schedule record for chat %d: %w", chatID, err)
			}
		}

		fn(&window)

		updated, err := json.Marshal(window)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < mergeRetries; i++ {
		err = r.client.Watch(ctx, merge, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (r *RedisStore) MergeScheduleStart(ctx context.Context, chatID int64, startMinute int, deleteMillis int64) error {
	return r.mergeSchedule(ctx, chatID, func(w *models.ScheduleWindow) {
		w.StartMinute = startMinute
		w.DeleteMillis = deleteMillis
	})
}

func (r *RedisStore) MergeScheduleEnd(ctx context.Context, chatID int64, endMinute int) error {
	return r.mergeSchedule(ctx, chatID, func(w *models.ScheduleWindow) {
		w.EndMinute = endMinute
	})
}

func (r *RedisStore) IsWhitelisted(ctx context.Context, chatID, userID int64) (bool, error) {
	return r.client.SIsMember(ctx, whitelistKey(chatID), userID).Result()
}

func (r *RedisStore) AddToWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	added, err := r.client.SAdd(ctx, whitelistKey(chatID), userID).Result()
	if err != nil {
		return false, err
	}
	return added == 0, nil
}

func (r *RedisStore) RemoveFromWhitelist(ctx context.Context, chatID, userID int64) (bool, error) {
	removed, err := r.client.SRem(ctx, whitelistKey(chatID), userID).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *RedisStore) WhitelistSize(ctx context.Context, chatID int64) (int, error) {
	size, err := r.client.SCard(ctx, whitelistKey(chatID)).Result()
	return int(size), err
}
