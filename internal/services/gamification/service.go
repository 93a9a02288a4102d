package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// UserUpdater changes the persisted user record of the active session
type UserUpdater interface {
	UpdateLocalUser(ctx context.Context, fn func(*model.UserRecord)) error
}

// Status is an achievement definition merged with the user's progress
type Status struct {
	model.Achievement
	Progress   int    `json:"progress"`
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlockedAt,omitempty"`
}

// Service tracks achievement progress and awards coins
type Service struct {
	storage storage.Storage
	users   UserUpdater
	clock   clock.Clock
	logger  *slog.Logger

	// serializes read-modify-write of the achievements record
	mu sync.Mutex
}

// New creates a new gamification service. users may be nil, in which
// case unlocks award no coins.
func New(storage storage.Storage, users UserUpdater, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		users:   users,
		clock:   clock,
		logger:  logger,
	}
}

// Record counts event towards every matching achievement and returns
// the achievements it unlocked
func (s *Service) Record(ctx context.Context, event Event) ([]model.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var unlocked []model.Achievement
	reward := 0
	changed := false

	for _, def := range definitions {
		if def.event != event.Type {
			continue
		}
		p := progress[def.ID]
		if p.Unlocked {
			continue
		}
		if def.distinct {
			if event.GameID == "" || slices.Contains(p.Seen, event.GameID) {
				continue
			}
			p.Seen = append(p.Seen, event.GameID)
		}

		p.Progress++
		changed = true
		if p.Progress >= def.Target {
			now := s.clock.Now()
			p.Unlocked = true
			p.UnlockedAt = &now
			p.Seen = nil
			unlocked = append(unlocked, def.Achievement)
			reward += def.Reward
		}
		progress[def.ID] = p
	}

	if !changed {
		return nil, nil
	}

	if err := s.save(ctx, progress); err != nil {
		return nil, err
	}

	if reward > 0 {
		s.award(ctx, reward)
		for _, a := range unlocked {
			s.logger.Info("achievement unlocked", "achievement", a.ID, "reward", a.Reward)
		}
	}
	return unlocked, nil
}

// List returns every achievement with the user's progress
func (s *Service) List(ctx context.Context) ([]Status, error) {
	s.mu.Lock()
	progress, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, len(definitions))
	for i, def := range definitions {
		p := progress[def.ID]
		statuses[i] = Status{
			Achievement: def.Achievement,
			Progress:    p.Progress,
			Unlocked:    p.Unlocked,
		}
		if p.UnlockedAt != nil {
			statuses[i].UnlockedAt = p.UnlockedAt.UTC().Format(time.RFC3339)
		}
	}
	return statuses, nil
}

// Reset clears all progress
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.SaveAchievements(ctx, []model.AchievementProgress{})
}

// award adds coins to the logged-in user. Guests keep their unlocks
// but earn nothing.
func (s *Service) award(ctx context.Context, coins int) {
	if s.users == nil {
		return
	}
	err := s.users.UpdateLocalUser(ctx, func(u *model.UserRecord) { u.Coins += coins })
	if errors.Is(err, model.ErrNoSession) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to award coins", "coins", coins, "error", err)
	}
}

func (s *Service) load(ctx context.Context) (map[model.AchievementID]model.AchievementProgress, error) {
	records, err := s.storage.LoadAchievements(ctx)
	if err != nil && !errors.Is(err, model.ErrNoAchievements) {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	progress := make(map[model.AchievementID]model.AchievementProgress, len(definitions))
	for _, def := range definitions {
		progress[def.ID] = model.AchievementProgress{ID: def.ID, Target: def.Target}
	}
	for _, r := range records {
		if _, known := progress[r.ID]; known {
			progress[r.ID] = r
		}
	}
	return progress, nil
}

func (s *Service) save(ctx context.Context, progress map[model.AchievementID]model.AchievementProgress) error {
	records := make([]model.AchievementProgress, 0, len(definitions))
	for _, def := range definitions {
		records = append(records, progress[def.ID])
	}
	if err := s.storage.SaveAchievements(ctx, records); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}
	return nil
}
