package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/gamehub/internal/model"
)

// EncodeSession splits a session into the auth_token and user_data values
func EncodeSession(session *model.Session) (string, []byte, error) {
	if !session.Valid() {
		return "", nil, ErrInvalidSession
	}
	user, err := json.Marshal(session.User)
	if err != nil {
		return "", nil, err
	}
	return session.Token, user, nil
}

// DecodeSession rebuilds a session from the two stored values.
// A missing half or an unreadable user record counts as no session.
func DecodeSession(token string, user []byte) (*model.Session, error) {
	if token == "" || len(user) == 0 {
		return nil, model.ErrNoSession
	}
	session := &model.Session{Token: token}
	if err := json.Unmarshal(user, &session.User); err != nil {
		return nil, fmt.Errorf("%w: unreadable user record: %v", model.ErrNoSession, err)
	}
	if !session.Valid() {
		return nil, model.ErrNoSession
	}
	return session, nil
}

// DecodeSettings parses the app_settings value
func DecodeSettings(data []byte) (*model.Settings, error) {
	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("unreadable settings: %w", err)
	}
	return &settings, nil
}

// DecodeAchievements parses the achievements value
func DecodeAchievements(data []byte) ([]model.AchievementProgress, error) {
	var progress []model.AchievementProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("unreadable achievements: %w", err)
	}
	return progress, nil
}
