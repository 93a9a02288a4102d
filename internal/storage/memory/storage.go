package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		values: make(map[string][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	token, user, err := storage.EncodeSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[storage.KeyAuthToken] = []byte(token)
	s.values[storage.KeyUserData] = user
	return nil
}

func (s *Storage) LoadSession(ctx context.Context) (*model.Session, error) {
	s.mu.RLock()
	token := s.values[storage.KeyAuthToken]
	user := s.values[storage.KeyUserData]
	s.mu.RUnlock()

	return storage.DecodeSession(string(token), user)
}

func (s *Storage) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, storage.KeyAuthToken)
	delete(s.values, storage.KeyUserData)
	return nil
}

// Settings operations

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	return s.setJSON(storage.KeyAppSettings, settings)
}

func (s *Storage) LoadSettings(ctx context.Context) (*model.Settings, error) {
	data, ok := s.get(storage.KeyAppSettings)
	if !ok {
		return nil, model.ErrNoSettings
	}
	return storage.DecodeSettings(data)
}

// Achievement operations

func (s *Storage) SaveAchievements(ctx context.Context, progress []model.AchievementProgress) error {
	return s.setJSON(storage.KeyAchievements, progress)
}

func (s *Storage) LoadAchievements(ctx context.Context) ([]model.AchievementProgress, error) {
	data, ok := s.get(storage.KeyAchievements)
	if !ok {
		return nil, model.ErrNoAchievements
	}
	return storage.DecodeAchievements(data)
}

// SetRaw writes a value directly under key (for tests that simulate partial writes)
func (s *Storage) SetRaw(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Storage) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = data
	return nil
}

func (s *Storage) get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.values[key]
	return data, ok
}
