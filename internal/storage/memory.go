package storage

import (
	"context"
	"sync"

	"tg-autodelete/internal/models"
)

// MemoryStore keeps chat settings in a mutex-guarded map. It is the default
// backend and also serves as the read cache in front of persistent backends.
type MemoryStore struct {
	mu    sync.RWMutex
	chats map[int64]*models.ChatSettings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats: make(map[int64]*models.ChatSettings),
	}
}

// settings returns the record for chatID, creating it when absent. Callers
// must hold the write lock.
func (m *MemoryStore) settings(chatID int64) *models.ChatSettings {
	s, ok := m.chats[chatID]
	if !ok {
		s = models.NewChatSettings(chatID)
		m.chats[chatID] = s
	}
	return s
}

func (m *MemoryStore) GetTimer(_ context.Context, chatID int64) (models.GeneralTimer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.chats[chatID]; ok {
		return s.Timer(), nil
	}
	return models.GeneralTimer{Mode: models.TimerUnset}, nil
}

func (m *MemoryStore) SetTimer(_ context.Context, chatID int64, t models.GeneralTimer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings(chatID)
	s.TimerMode = t.Mode
	s.TimerMillis = t.Millis
	return nil
}

func (m *MemoryStore) GetSchedule(_ context.Context, chatID int64) (models.ScheduleWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.chats[chatID]; ok {
		return s.Schedule(), nil
	}
	return models.EmptyWindow(), nil
}

func (m *MemoryStore) MergeScheduleStart(_ context.Context, chatID int64, startMinute int, deleteMillis int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings(chatID)
	s.ScheduleStart = startMinute
	s.ScheduleMillis = deleteMillis
	return nil
}

func (m *MemoryStore) MergeScheduleEnd(_ context.Context, chatID int64, endMinute int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings(chatID)
	s.ScheduleEnd = endMinute
	return nil
}

func (m *MemoryStore) IsWhitelisted(_ context.Context, chatID, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.chats[chatID]; ok {
		return s.IsWhitelisted(userID), nil
	}
	return false, nil
}

func (m *MemoryStore) AddToWhitelist(_ context.Context, chatID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings(chatID)
	if s.IsWhitelisted(userID) {
		return true, nil
	}
	s.Whitelist = append(s.Whitelist, userID)
	return false, nil
}

func (m *MemoryStore) RemoveFromWhitelist(_ context.Context, chatID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.chats[chatID]
	if !ok || !s.IsWhitelisted(userID) {
		return false, nil
	}
	kept := s.Whitelist[:0]
	for _, id := range s.Whitelist {
		if id != userID {
			kept = append(kept, id)
		}
	}
	s.Whitelist = kept
	return true, nil
}

func (m *MemoryStore) WhitelistSize(_ context.Context, chatID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.chats[chatID]; ok {
		return len(s.Whitelist), nil
	}
	return 0, nil
}

// Has reports whether a record exists for the chat.
func (m *MemoryStore) Has(chatID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.chats[chatID]
	return ok
}

// Put replaces the cached record for a chat. Used by the cached store to
// refresh entries loaded from a persistent backend.
func (m *MemoryStore) Put(s *models.ChatSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[s.ChatID] = s
}

// Drop removes a cached record.
func (m *MemoryStore) Drop(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, chatID)
}
