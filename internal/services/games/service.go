package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/fallback"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/services/errmsg"
	"github.com/mcoot/gamehub/internal/services/gamification"
)

// SessionSource gives access to the active session and ends it on a 401
type SessionSource interface {
	Current() *model.Session
	Expire(ctx context.Context) error
}

// LiveCatalog fetches the third-party catalog
type LiveCatalog interface {
	ListGames(ctx context.Context, lang string) ([]catalog.LiveGame, error)
}

// Recorder receives gameplay events for achievements
type Recorder interface {
	Record(ctx context.Context, event gamification.Event) ([]model.Achievement, error)
}

// Filter narrows a game listing
type Filter struct {
	Category model.Category
	Limit    int
}

// RatingSummary is the backend's aggregate after a rating
type RatingSummary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"ratingCount"`
}

// Dependencies holds everything the games service talks to
type Dependencies struct {
	Target   *remote.Target
	Prober   *remote.Prober
	Live     LiveCatalog
	Adapter  *catalog.Adapter
	Fallback *fallback.Provider
	Sessions SessionSource
	Recorder Recorder
	Logger   *slog.Logger
}

// Service is the client side of the games and comments API
type Service struct {
	target   *remote.Target
	prober   *remote.Prober
	live     LiveCatalog
	adapter  *catalog.Adapter
	fallback *fallback.Provider
	sessions SessionSource
	recorder Recorder
	logger   *slog.Logger
}

// New creates a new games service
func New(deps Dependencies) *Service {
	return &Service{
		target:   deps.Target,
		prober:   deps.Prober,
		live:     deps.Live,
		adapter:  deps.Adapter,
		fallback: deps.Fallback,
		sessions: deps.Sessions,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
}

// Catalog operations

// ListGames returns the backend catalog, or the demo catalog if the
// backend cannot be used for any reason
func (s *Service) ListGames(ctx context.Context, filter Filter) []model.Game {
	req := remote.Request{Method: http.MethodGet, Path: "/games", Query: map[string]string{}}
	if filter.Category != "" {
		req.Query["category"] = catalog.CategoryQuery(filter.Category)
	}
	if filter.Limit > 0 {
		req.Query["limit"] = strconv.Itoa(filter.Limit)
	}

	payload, err := remote.Call[catalog.DemoPayload](ctx, s.target, req)
	if err != nil {
		s.logger.Warn("game list unavailable, using demo catalog", "error", err)
		return applyFilter(s.fallback.Games(), filter)
	}
	return s.adapter.NormalizeDemo(payload.Games)
}

// ListLiveGames returns the Gamezop catalog, or the demo catalog on failure
func (s *Service) ListLiveGames(ctx context.Context, lang string) []model.Game {
	if s.live == nil {
		return s.fallback.Games()
	}
	raw, err := s.live.ListGames(ctx, lang)
	if err != nil || len(raw) == 0 {
		s.logger.Warn("live catalog unavailable, using demo catalog", "error", err)
		return s.fallback.Games()
	}
	return s.adapter.NormalizeLive(raw)
}

// GetGame returns one game. Demo games are still found when the backend is down.
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, model.NewValidationError(errmsg.MsgMissingFields)
	}

	payload, err := remote.Call[catalog.DemoGamePayload](ctx, s.target, remote.Request{
		Method: http.MethodGet,
		Path:   "/games/" + url.PathEscape(string(id)),
	})
	if err == nil {
		game := s.adapter.Normalize(*payload.Game)
		return &game, nil
	}

	if game, ok := s.fallback.Game(id); ok {
		s.logger.Warn("game unavailable, using demo entry", "game", id, "error", err)
		return &game, nil
	}
	if re, ok := remote.AsError(err); ok && re.StatusCode == http.StatusNotFound {
		return nil, errmsg.New(model.KindRejected, errmsg.MsgGameNotFound, fmt.Errorf("%w: %v", model.ErrGameNotFound, err))
	}
	return nil, errmsg.Translate(err)
}

// Play resolves a game for launching and records the play
func (s *Service) Play(ctx context.Context, id model.GameID) (*model.Game, []model.Achievement, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	unlocked := s.record(ctx, gamification.Event{Type: gamification.EventGamePlayed, GameID: game.ID})
	return game, unlocked, nil
}

// Comment operations

type wireComment struct {
	ID        string `json:"id"`
	GameID    string `json:"gameId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"createdAt"`
	Likes     int    `json:"likes"`
	IsLiked   bool   `json:"isLiked"`
}

func (c wireComment) toModel(gameID model.GameID) model.Comment {
	if c.GameID != "" {
		gameID = model.GameID(c.GameID)
	}
	return model.Comment{
		ID:            model.CommentID(c.ID),
		GameID:        gameID,
		Author:        c.Username,
		Text:          c.Content,
		Rating:        c.Rating,
		Timestamp:     c.CreatedAt,
		LikeCount:     c.Likes,
		LikedByViewer: c.IsLiked,
	}
}

type commentsResponse struct {
	Comments []wireComment `json:"comments"`
}

func (r *commentsResponse) Validate() error {
	if r.Comments == nil {
		return errors.New("missing comments array")
	}
	return nil
}

type commentResponse struct {
	Comment *wireComment `json:"comment"`
}

func (r *commentResponse) Validate() error {
	if r.Comment == nil || r.Comment.ID == "" {
		return errors.New("missing comment")
	}
	return nil
}

type postCommentRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// GetComments returns a game's comments, or the mock comments when no
// endpoint is reachable or the request fails
func (s *Service) GetComments(ctx context.Context, gameID model.GameID) []model.Comment {
	if s.prober != nil && !s.prober.AnyReachable(ctx, s.target.Endpoints()) {
		s.logger.Warn("no endpoint reachable, using mock comments", "game", gameID)
		return s.fallback.Comments(gameID)
	}

	req := remote.Request{
		Method: http.MethodGet,
		Path:   "/games/" + url.PathEscape(string(gameID)) + "/comments",
	}
	if session := s.sessions.Current(); session != nil {
		req.Token = session.Token
	}

	resp, err := remote.Call[commentsResponse](ctx, s.target, req)
	if err != nil {
		s.logger.Warn("comments unavailable, using mock comments", "game", gameID, "error", err)
		return s.fallback.Comments(gameID)
	}

	comments := make([]model.Comment, len(resp.Comments))
	for i, c := range resp.Comments {
		comments[i] = c.toModel(gameID)
	}
	return comments
}

// PostComment posts a comment. If the write fails for any reason other
// than an expired session, a local comment is returned in its place.
func (s *Service) PostComment(ctx context.Context, gameID model.GameID, text string, rating int) (*model.Comment, error) {
	session := s.sessions.Current()
	if session == nil {
		return nil, model.NewValidationError(errmsg.MsgLoginToComment)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewValidationError(errmsg.MsgEmptyComment)
	}
	if !model.ValidRating(rating) {
		return nil, errmsg.New(model.KindValidation, errmsg.MsgInvalidRating, model.ErrInvalidRating)
	}

	resp, err := remote.Call[commentResponse](ctx, s.target, remote.Request{
		Method: http.MethodPost,
		Path:   "/games/" + url.PathEscape(string(gameID)) + "/comments",
		Token:  session.Token,
		Body:   postCommentRequest{Content: text, Rating: rating},
	})

	var comment model.Comment
	switch {
	case err == nil:
		comment = resp.Comment.toModel(gameID)
	case remote.IsUnauthorized(err):
		return nil, s.expire(ctx, err)
	default:
		s.logger.Warn("comment not delivered, keeping local copy", "game", gameID, "error", err)
		comment = s.fallback.LocalComment(gameID, session.User.Username, text, rating)
	}

	s.record(ctx, gamification.Event{Type: gamification.EventCommentPosted, GameID: gameID})
	return &comment, nil
}

// DeleteComment deletes one of the user's comments
func (s *Service) DeleteComment(ctx context.Context, id model.CommentID) error {
	session := s.sessions.Current()
	if session == nil {
		return model.NewValidationError(errmsg.MsgLoginRequired)
	}

	_, err := s.target.Dispatch(ctx, remote.Request{
		Method: http.MethodDelete,
		Path:   "/comments/" + url.PathEscape(string(id)),
		Token:  session.Token,
	}, nil)
	if err != nil {
		if remote.IsUnauthorized(err) {
			return s.expire(ctx, err)
		}
		return errmsg.Translate(err)
	}
	return nil
}

// RateGame submits a 1..5 star rating
func (s *Service) RateGame(ctx context.Context, gameID model.GameID, rating int) (*RatingSummary, error) {
	session := s.sessions.Current()
	if session == nil {
		return nil, model.NewValidationError(errmsg.MsgLoginRequired)
	}
	if !model.ValidRating(rating) {
		return nil, errmsg.New(model.KindValidation, errmsg.MsgInvalidRating, model.ErrInvalidRating)
	}

	summary, err := remote.Call[RatingSummary](ctx, s.target, remote.Request{
		Method: http.MethodPost,
		Path:   "/games/" + url.PathEscape(string(gameID)) + "/rate",
		Token:  session.Token,
		Body:   rateRequest{Rating: rating},
	})
	if err != nil {
		if remote.IsUnauthorized(err) {
			return nil, s.expire(ctx, err)
		}
		return nil, errmsg.Translate(err)
	}

	s.record(ctx, gamification.Event{Type: gamification.EventGameRated, GameID: gameID})
	return summary, nil
}

func (s *Service) expire(ctx context.Context, cause error) error {
	if err := s.sessions.Expire(ctx); err != nil {
		s.logger.Error("failed to clear expired session", "error", err)
	}
	return errmsg.New(model.KindUnauthorized, errmsg.MsgSessionExpired, cause)
}

func (s *Service) record(ctx context.Context, event gamification.Event) []model.Achievement {
	if s.recorder == nil {
		return nil
	}
	unlocked, err := s.recorder.Record(ctx, event)
	if err != nil {
		s.logger.Warn("failed to record achievement progress", "event", event.Type, "error", err)
		return nil
	}
	return unlocked
}

func applyFilter(games []model.Game, filter Filter) []model.Game {
	filtered := games[:0:0]
	for _, g := range games {
		if filter.Category != "" && g.Category != filter.Category {
			continue
		}
		filtered = append(filtered, g)
		if filter.Limit > 0 && len(filtered) == filter.Limit {
			break
		}
	}
	return filtered
}
