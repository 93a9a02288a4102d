package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/fallback"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/services/auth"
	"github.com/mcoot/gamehub/internal/services/games"
	"github.com/mcoot/gamehub/internal/services/gamification"
	"github.com/mcoot/gamehub/internal/services/settings"
	"github.com/mcoot/gamehub/internal/storage"
	"github.com/mcoot/gamehub/internal/storage/memory"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
	"github.com/mcoot/gamehub/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Transport
	Endpoints   endpoint.Config
	Dispatcher  *remote.Dispatcher
	Prober      *remote.Prober
	AuthTarget  *remote.Target
	GamesTarget *remote.Target
	Gamezop     *catalog.GamezopClient

	// Catalog
	Adapter  *catalog.Adapter
	Fallback *fallback.Provider

	// Services
	AuthService         *auth.Service
	GamesService        *games.Service
	SettingsService     *settings.Service
	GamificationService *gamification.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Endpoints is the backend endpoint table.
	// If zero value, the development table is used.
	Endpoints endpoint.Config
	// Remote holds transport timeouts (optional)
	Remote remote.Config
	// Gamezop configures the live catalog client (optional)
	Gamezop catalog.GamezopConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "sqlite" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// SQLiteConfig holds database settings (optional when StorageType is "sqlite")
	SQLiteConfig *sqlite.Config
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// dependencies are the leaves every service is built from
type dependencies struct {
	store   storage.Storage
	clock   clock.Clock
	random  random.Random
	client  *resty.Client
	live    games.LiveCatalog
	cfg     Config
	logger  *slog.Logger
	gamezop *catalog.GamezopClient
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg = withDefaults(cfg)

	if err := cfg.Endpoints.Validate(); err != nil {
		return nil, err
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	gamezop := catalog.NewGamezopClient(cfg.Gamezop, logger.With("component", "gamezop"))

	return newWithDependencies(dependencies{
		store:   store,
		clock:   clock.New(),
		random:  random.New(),
		client:  remote.NewHTTPClient(cfg.Remote),
		live:    gamezop,
		gamezop: gamezop,
		cfg:     cfg,
		logger:  logger,
	}), nil
}

func withDefaults(cfg Config) Config {
	if cfg.Endpoints.Environment == "" {
		cfg.Endpoints = endpoint.DefaultConfig(endpoint.EnvDevelopment)
	}
	defaults := remote.DefaultConfig()
	if cfg.Remote.RequestTimeout <= 0 {
		cfg.Remote.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.Remote.ProbeTimeout <= 0 {
		cfg.Remote.ProbeTimeout = defaults.ProbeTimeout
	}
	if cfg.Remote.UserAgent == "" {
		cfg.Remote.UserAgent = defaults.UserAgent
	}
	if cfg.Gamezop.PartnerID == "" {
		cfg.Gamezop.PartnerID = catalog.DefaultPartnerID
	}
	return cfg
}

func newStorage(cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeSQLite:
		sqliteCfg := sqlite.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		store, err := sqlite.New(sqliteCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'sqlite' or 'redis'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) *App {
	logger := deps.logger
	partnerID := deps.cfg.Gamezop.PartnerID

	dispatcher := remote.NewDispatcher(deps.client, deps.cfg.Remote, logger.With("component", "dispatcher"))
	prober := remote.NewProber(deps.client, deps.cfg.Remote, logger.With("component", "prober"))
	authTarget := remote.NewTarget(dispatcher, deps.cfg.Endpoints, endpoint.PurposeAuth)
	gamesTarget := remote.NewTarget(dispatcher, deps.cfg.Endpoints, endpoint.PurposeGames)

	adapter := catalog.NewAdapter(partnerID, deps.random)
	fallbackProvider := fallback.New(partnerID, deps.clock)

	authService := auth.New(authTarget, deps.store, logger.With("service", "auth"))
	settingsService := settings.New(deps.store, logger.With("service", "settings"))
	gamificationService := gamification.New(deps.store, authService, deps.clock, logger.With("service", "gamification"))
	gamesService := games.New(games.Dependencies{
		Target:   gamesTarget,
		Prober:   prober,
		Live:     deps.live,
		Adapter:  adapter,
		Fallback: fallbackProvider,
		Sessions: authService,
		Recorder: gamificationService,
		Logger:   logger.With("service", "games"),
	})

	return &App{
		Storage:             deps.store,
		Clock:               deps.clock,
		Random:              deps.random,
		Endpoints:           deps.cfg.Endpoints,
		Dispatcher:          dispatcher,
		Prober:              prober,
		AuthTarget:          authTarget,
		GamesTarget:         gamesTarget,
		Gamezop:             deps.gamezop,
		Adapter:             adapter,
		Fallback:            fallbackProvider,
		AuthService:         authService,
		GamesService:        gamesService,
		SettingsService:     settingsService,
		GamificationService: gamificationService,
		Logger:              logger,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
