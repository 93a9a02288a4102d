package devserver

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/devserver/apierr"
	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/devserver/handler"
	"github.com/mcoot/gamehub/internal/devserver/middleware"
	"github.com/mcoot/gamehub/internal/devserver/response"
	httpmw "github.com/mcoot/gamehub/internal/middleware"
)

// RouterConfig holds the dependencies of the router
type RouterConfig struct {
	Logger   *slog.Logger
	Accounts *backend.Accounts
	Tokens   *backend.Tokens
	Games    *backend.Games
}

// NewRouter creates the dev backend router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.Accounts, cfg.Tokens)
	gamesHandler := handler.NewGamesHandler(cfg.Games, cfg.Accounts)

	authMiddleware := middleware.Auth(cfg.Tokens)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.Tokens)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(httpmw.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/register-admin", authHandler.RegisterAdmin).Methods(http.MethodPost)
	auth.Handle("/check", authMiddleware(http.HandlerFunc(authHandler.Check))).Methods(http.MethodGet)
	auth.Handle("/change-password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword))).Methods(http.MethodPost)
	auth.Handle("/profile", authMiddleware(http.HandlerFunc(authHandler.UpdateProfile))).Methods(http.MethodPut)

	// Catalog routes are public but viewer-aware; writes require a token
	games := api.PathPrefix("/games").Subrouter()
	games.Use(optionalAuthMiddleware)
	games.HandleFunc("", gamesHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gamesHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/comments", gamesHandler.Comments).Methods(http.MethodGet)
	games.Handle("/{id}/comments", authMiddleware(http.HandlerFunc(gamesHandler.PostComment))).Methods(http.MethodPost)
	games.Handle("/{id}/rate", authMiddleware(http.HandlerFunc(gamesHandler.Rate))).Methods(http.MethodPost)

	comments := api.PathPrefix("/comments").Subrouter()
	comments.Use(authMiddleware)
	comments.HandleFunc("/{id}", gamesHandler.DeleteComment).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
