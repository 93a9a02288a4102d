package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/devserver/apierr"
	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/devserver/middleware"
	"github.com/mcoot/gamehub/internal/devserver/response"
	"github.com/mcoot/gamehub/internal/model"
)

// GamesHandler handles the catalog, comment and rating endpoints
type GamesHandler struct {
	games    *backend.Games
	accounts *backend.Accounts
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(games *backend.Games, accounts *backend.Accounts) *GamesHandler {
	return &GamesHandler{games: games, accounts: accounts}
}

// List handles GET /api/games
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit không hợp lệ"))
			return
		}
		limit = n
	}

	games := h.games.List(r.Context(), query.Get("category"), limit)
	response.JSON(w, http.StatusOK, catalog.DemoPayload{Games: games})
}

// Get handles GET /api/games/{id}
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Get(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, catalog.DemoGamePayload{Game: game})
}

// Comments handles GET /api/games/{id}/comments
func (h *GamesHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.games.Comments(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var viewer model.UserID
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		viewer = claims.UserID
	}

	out := response.Comments{Comments: make([]response.Comment, len(comments))}
	for i, c := range comments {
		out.Comments[i] = response.CommentFromBackend(c, viewer)
	}
	response.JSON(w, http.StatusOK, out)
}

// PostComment handles POST /api/games/{id}/comments
func (h *GamesHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req commentRequest
	if !decode(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Nội dung bình luận không được để trống"))
		return
	}

	user, err := h.accounts.Get(r.Context(), claims.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	comment, err := h.games.AddComment(r.Context(), gameID(r), *user, content, req.Rating)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.CommentEnvelope{Comment: response.CommentFromBackend(*comment, user.ID)})
}

// DeleteComment handles DELETE /api/comments/{id}
func (h *GamesHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	id := model.CommentID(mux.Vars(r)["id"])
	if err := h.games.DeleteComment(r.Context(), id, claims.UserID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Rate handles POST /api/games/{id}/rate
func (h *GamesHandler) Rate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req rateRequest
	if !decode(w, r, &req) {
		return
	}

	summary, err := h.games.Rate(r.Context(), gameID(r), claims.UserID, req.Rating)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Rating{Average: summary.Average, Count: summary.Count})
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}
