package storage

import (
	"context"
	"errors"

	"github.com/mcoot/gamehub/internal/model"
)

// Keys of the durable client state
const (
	KeyAuthToken    = "auth_token"
	KeyUserData     = "user_data"
	KeyAppSettings  = "app_settings"
	KeyAchievements = "achievements"
)

// ErrInvalidSession is returned when asked to persist a session without a token or user
var ErrInvalidSession = errors.New("session must have a token and a user")

// Storage defines the interface for durable client state.
// Implementations must write the token and user record of a session
// in a single atomic operation.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	LoadSession(ctx context.Context) (*model.Session, error)
	ClearSession(ctx context.Context) error

	// Settings operations
	SaveSettings(ctx context.Context, settings *model.Settings) error
	LoadSettings(ctx context.Context) (*model.Settings, error)

	// Achievement operations
	SaveAchievements(ctx context.Context, progress []model.AchievementProgress) error
	LoadAchievements(ctx context.Context) ([]model.AchievementProgress, error)

	Close() error
}
