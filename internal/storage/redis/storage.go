package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultConfig().Namespace
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	token, user, err := storage.EncodeSession(session)
	if err != nil {
		return err
	}

	// MULTI/EXEC so the token and user record never diverge
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), token, s.cfg.SessionTTL)
		pipe.Set(ctx, s.userKey(), user, s.cfg.SessionTTL)
		return nil
	})
	return err
}

func (s *Storage) LoadSession(ctx context.Context) (*model.Session, error) {
	values, err := s.client.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil {
		return nil, err
	}

	token, _ := values[0].(string)
	user, _ := values[1].(string)
	return storage.DecodeSession(token, []byte(user))
}

func (s *Storage) ClearSession(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.tokenKey(), s.userKey())
		return nil
	})
	return err
}

// Settings operations

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	return s.setJSON(ctx, s.settingsKey(), settings)
}

func (s *Storage) LoadSettings(ctx context.Context) (*model.Settings, error) {
	data, err := s.client.Get(ctx, s.settingsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoSettings
		}
		return nil, err
	}
	return storage.DecodeSettings(data)
}

// Achievement operations

func (s *Storage) SaveAchievements(ctx context.Context, progress []model.AchievementProgress) error {
	return s.setJSON(ctx, s.achievementsKey(), progress)
}

func (s *Storage) LoadAchievements(ctx context.Context) ([]model.AchievementProgress, error) {
	data, err := s.client.Get(ctx, s.achievementsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoAchievements
		}
		return nil, err
	}
	return storage.DecodeAchievements(data)
}

func (s *Storage) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}
