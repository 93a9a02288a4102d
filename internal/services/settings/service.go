package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/errmsg"
	"github.com/mcoot/gamehub/internal/storage"
)

// Setting keys accepted by Set
const (
	KeyLanguage              = "language"
	KeyDarkMode              = "dark_mode"
	KeyNotificationsPush     = "notifications.push"
	KeyNotificationsNewGames = "notifications.new_games"
	KeyNotificationsComments = "notifications.comments"
	KeyDataUsage             = "data_usage"
)

// Languages the app ships strings for
var supportedLanguages = []string{"vi", "en"}

// Service reads and writes the app_settings record
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new settings service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Keys lists the keys accepted by Set
func Keys() []string {
	return []string{
		KeyLanguage,
		KeyDarkMode,
		KeyNotificationsPush,
		KeyNotificationsNewGames,
		KeyNotificationsComments,
		KeyDataUsage,
	}
}

// Get returns the saved settings, or the defaults if none were saved
func (s *Service) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := s.storage.LoadSettings(ctx)
	if errors.Is(err, model.ErrNoSettings) {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Update applies fn to the current settings and saves the result
func (s *Service) Update(ctx context.Context, fn func(*model.Settings) error) (*model.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(settings); err != nil {
		return nil, err
	}
	if err := s.storage.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

// Set changes one setting by key
func (s *Service) Set(ctx context.Context, key, value string) (*model.Settings, error) {
	apply, err := setter(key, strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}

	settings, err := s.Update(ctx, func(st *model.Settings) error {
		apply(st)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("setting changed", "key", key, "value", value)
	return settings, nil
}

// Reset restores the defaults
func (s *Service) Reset(ctx context.Context) (*model.Settings, error) {
	return s.Update(ctx, func(st *model.Settings) error {
		*st = model.DefaultSettings()
		return nil
	})
}

// setter parses value for key and returns the change to apply
func setter(key, value string) (func(*model.Settings), error) {
	switch key {
	case KeyLanguage:
		lang := strings.ToLower(value)
		for _, supported := range supportedLanguages {
			if lang == supported {
				return func(st *model.Settings) { st.Language = lang }, nil
			}
		}
		return nil, model.NewValidationError(errmsg.MsgInvalidSettingVal)

	case KeyDataUsage:
		switch usage := model.DataUsage(strings.ToLower(value)); usage {
		case model.DataUsageLow, model.DataUsageStandard, model.DataUsageHigh:
			return func(st *model.Settings) { st.DataUsage = usage }, nil
		}
		return nil, model.NewValidationError(errmsg.MsgInvalidSettingVal)
	}

	var field func(*model.Settings) *bool
	switch key {
	case KeyDarkMode:
		field = func(st *model.Settings) *bool { return &st.DarkMode }
	case KeyNotificationsPush:
		field = func(st *model.Settings) *bool { return &st.Notifications.Push }
	case KeyNotificationsNewGames:
		field = func(st *model.Settings) *bool { return &st.Notifications.NewGames }
	case KeyNotificationsComments:
		field = func(st *model.Settings) *bool { return &st.Notifications.Comments }
	default:
		return nil, model.NewValidationError(errmsg.MsgUnknownSetting)
	}

	b, err := parseBool(value)
	if err != nil {
		return nil, model.NewValidationError(errmsg.MsgInvalidSettingVal)
	}
	return func(st *model.Settings) { *field(st) = b }, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes", "bật":
		return true, nil
	case "off", "no", "tắt":
		return false, nil
	}
	return strconv.ParseBool(value)
}
