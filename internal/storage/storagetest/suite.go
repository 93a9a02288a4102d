// Package storagetest holds the behaviour every storage backend must share
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Suite runs the common storage tests against the backend returned by New
type Suite struct {
	suite.Suite
	New     func() storage.Storage
	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.New()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

// SampleSession returns a valid session for tests
func SampleSession() *model.Session {
	return &model.Session{
		Token: "token-abc",
		User: model.UserRecord{
			ID:               "user-1",
			Username:         "demo",
			Email:            "demo@example.com",
			SelectedAvatarID: "avatar-3",
			Score:            120,
			Level:            2,
			Coins:            50,
			Role:             model.RoleUser,
		},
	}
}

// Session tests

func (s *Suite) TestSessionRoundTrip() {
	session := SampleSession()

	err := s.Storage.SaveSession(s.Ctx, session)
	s.Require().NoError(err)

	loaded, err := s.Storage.LoadSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal(session, loaded)
}

func (s *Suite) TestLoadSessionWhenEmpty() {
	_, err := s.Storage.LoadSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *Suite) TestClearSession() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, SampleSession()))

	err := s.Storage.ClearSession(s.Ctx)
	s.Require().NoError(err)

	_, err = s.Storage.LoadSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoSession)

	// Clearing twice is fine
	s.NoError(s.Storage.ClearSession(s.Ctx))
}

func (s *Suite) TestSaveSessionOverwrites() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, SampleSession()))

	updated := SampleSession()
	updated.User.Coins = 75
	updated.User.SelectedAvatarID = "avatar-9"
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, updated))

	loaded, err := s.Storage.LoadSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal(75, loaded.User.Coins)
	s.Equal("avatar-9", loaded.User.SelectedAvatarID)
}

func (s *Suite) TestSaveInvalidSession() {
	err := s.Storage.SaveSession(s.Ctx, &model.Session{User: SampleSession().User})
	s.ErrorIs(err, storage.ErrInvalidSession)

	_, err = s.Storage.LoadSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *Suite) TestClearSessionKeepsSettings() {
	settings := model.DefaultSettings()
	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, &settings))
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, SampleSession()))

	s.Require().NoError(s.Storage.ClearSession(s.Ctx))

	_, err := s.Storage.LoadSettings(s.Ctx)
	s.NoError(err)
}

func (s *Suite) TestConcurrentSessionWrites() {
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session := SampleSession()
			session.User.Coins = i
			_ = s.Storage.SaveSession(s.Ctx, session)
		}()
	}
	wg.Wait()

	loaded, err := s.Storage.LoadSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal("token-abc", loaded.Token)
}

// Settings tests

func (s *Suite) TestSettingsRoundTrip() {
	_, err := s.Storage.LoadSettings(s.Ctx)
	s.ErrorIs(err, model.ErrNoSettings)

	settings := model.DefaultSettings()
	settings.DarkMode = true
	settings.Language = "en"
	settings.Notifications.Comments = false
	settings.DataUsage = model.DataUsageLow

	s.Require().NoError(s.Storage.SaveSettings(s.Ctx, &settings))

	loaded, err := s.Storage.LoadSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal(settings, *loaded)
}

// Achievement tests

func (s *Suite) TestAchievementsRoundTrip() {
	_, err := s.Storage.LoadAchievements(s.Ctx)
	s.ErrorIs(err, model.ErrNoAchievements)

	unlockedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	progress := []model.AchievementProgress{
		{ID: "first_game", Progress: 1, Target: 1, Unlocked: true, UnlockedAt: &unlockedAt},
		{ID: "game_explorer", Progress: 2, Target: 5},
	}
	s.Require().NoError(s.Storage.SaveAchievements(s.Ctx, progress))

	loaded, err := s.Storage.LoadAchievements(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(progress[1], loaded[1])
	s.True(loaded[0].Unlocked)
	s.True(unlockedAt.Equal(*loaded[0].UnlockedAt))
}
