package redis

import (
	"fmt"

	"github.com/mcoot/gamehub/internal/storage"
)

// Key prefix for all client state
const keyPrefix = "gamehub"

// key returns the Redis key for one of the storage keys
func (s *Storage) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.cfg.Namespace, name)
}

func (s *Storage) tokenKey() string        { return s.key(storage.KeyAuthToken) }
func (s *Storage) userKey() string         { return s.key(storage.KeyUserData) }
func (s *Storage) settingsKey() string     { return s.key(storage.KeyAppSettings) }
func (s *Storage) achievementsKey() string { return s.key(storage.KeyAchievements) }
