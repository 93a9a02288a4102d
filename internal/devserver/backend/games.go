package backend

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/fallback"
	"github.com/mcoot/gamehub/internal/model"
)

// Comment is a stored comment
type Comment struct {
	ID        model.CommentID
	GameID    model.GameID
	UserID    model.UserID
	Username  string
	Content   string
	Rating    int
	CreatedAt time.Time
	LikedBy   map[model.UserID]bool
}

// RatingSummary aggregates the ratings of one game
type RatingSummary struct {
	Average float64
	Count   int
}

// Games holds the served catalog, comments and ratings
type Games struct {
	clock clock.Clock

	mu       sync.RWMutex
	games    []catalog.DemoGame
	comments map[model.GameID][]*Comment
	ratings  map[model.GameID]map[model.UserID]int
}

// NewGames creates a store seeded with the demo catalog
func NewGames(clk clock.Clock) *Games {
	return &Games{
		clock:    clk,
		games:    fallback.DemoGames(),
		comments: make(map[model.GameID][]*Comment),
		ratings:  make(map[model.GameID]map[model.UserID]int),
	}
}

// List returns games whose category matches (case-insensitively) up to limit
func (g *Games) List(ctx context.Context, category string, limit int) []catalog.DemoGame {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]catalog.DemoGame, 0, len(g.games))
	for _, game := range g.games {
		if category != "" && !strings.EqualFold(game.Category, category) {
			continue
		}
		out = append(out, game)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Get returns one game
func (g *Games) Get(ctx context.Context, id model.GameID) (*catalog.DemoGame, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, game := range g.games {
		if game.ID == string(id) {
			return &game, nil
		}
	}
	return nil, model.ErrGameNotFound
}

// Comments returns a game's comments, newest first
func (g *Games) Comments(ctx context.Context, id model.GameID) ([]Comment, error) {
	if _, err := g.Get(ctx, id); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	stored := g.comments[id]
	out := make([]Comment, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, *stored[i])
	}
	return out, nil
}

// AddComment stores a comment by the given user
func (g *Games) AddComment(ctx context.Context, id model.GameID, user model.UserRecord, content string, rating int) (*Comment, error) {
	if !model.ValidRating(rating) {
		return nil, model.ErrInvalidRating
	}
	if _, err := g.Get(ctx, id); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        model.CommentID(gonanoid.Must()),
		GameID:    id,
		UserID:    user.ID,
		Username:  user.Username,
		Content:   content,
		Rating:    rating,
		CreatedAt: g.clock.Now().UTC(),
		LikedBy:   make(map[model.UserID]bool),
	}

	g.mu.Lock()
	g.comments[id] = append(g.comments[id], c)
	g.mu.Unlock()

	out := *c
	return &out, nil
}

// DeleteComment removes a comment written by the given user
func (g *Games) DeleteComment(ctx context.Context, id model.CommentID, userID model.UserID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for gameID, comments := range g.comments {
		idx := slices.IndexFunc(comments, func(c *Comment) bool { return c.ID == id })
		if idx < 0 {
			continue
		}
		if comments[idx].UserID != userID {
			return ErrNotCommentAuthor
		}
		g.comments[gameID] = slices.Delete(comments, idx, idx+1)
		return nil
	}
	return model.ErrCommentNotFound
}

// Rate records the user's rating, replacing any earlier one
func (g *Games) Rate(ctx context.Context, id model.GameID, userID model.UserID, rating int) (*RatingSummary, error) {
	if !model.ValidRating(rating) {
		return nil, model.ErrInvalidRating
	}
	if _, err := g.Get(ctx, id); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ratings[id] == nil {
		g.ratings[id] = make(map[model.UserID]int)
	}
	g.ratings[id][userID] = rating

	total := 0
	for _, r := range g.ratings[id] {
		total += r
	}
	count := len(g.ratings[id])
	return &RatingSummary{Average: float64(total) / float64(count), Count: count}, nil
}
