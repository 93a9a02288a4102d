package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/factory"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
	"github.com/mcoot/gamehub/internal/storage/sqlite"
)

// Config holds CLI configuration
type Config struct {
	Env        string
	Store      string
	DBPath     string
	RedisURL   string
	Partner    string
	Lang       string
	Output     string
	Verbose    bool
	ConfigFile string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Env:        getEnvOrDefault("GAMEHUB_ENV", string(endpoint.EnvDevelopment)),
		Store:      getEnvOrDefault("GAMEHUB_STORE", factory.StorageTypeSQLite),
		DBPath:     getEnvOrDefault("GAMEHUB_DB", sqlite.DefaultConfig().Path),
		RedisURL:   os.Getenv("GAMEHUB_REDIS_URL"),
		Partner:    getEnvOrDefault("GAMEHUB_PARTNER", catalog.DefaultPartnerID),
		Lang:       os.Getenv("GAMEHUB_LANG"),
		Output:     "text",
		Verbose:    false,
		ConfigFile: os.Getenv("GAMEHUB_CONFIG"),
	}
}

// Logger returns the CLI logger: errors only, or everything with --verbose
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelError
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// FactoryConfig converts the CLI configuration into the application config
func (c *Config) FactoryConfig(logger *slog.Logger) (factory.Config, error) {
	endpoints, err := c.LoadEndpoints()
	if err != nil {
		return factory.Config{}, err
	}

	fc := factory.Config{
		Endpoints:   endpoints,
		Gamezop:     catalog.GamezopConfig{PartnerID: c.Partner},
		Logger:      logger,
		StorageType: c.Store,
	}

	switch c.Store {
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlite.DefaultConfig()
		sqliteCfg.Path = c.DBPath
		fc.SQLiteConfig = &sqliteCfg
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return factory.Config{}, errors.New("--redis is required when --store=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc, nil
}

// LoadEndpoints builds the endpoint table for the selected environment.
// Values come from the built-in table, then gamehub.yaml, then
// GAMEHUB_<PURPOSE>_<SLOT> environment variables.
func (c *Config) LoadEndpoints() (endpoint.Config, error) {
	env, err := endpoint.ParseEnvironment(c.Env)
	if err != nil {
		return endpoint.Config{}, err
	}

	v := viper.New()
	defaults := endpoint.DefaultConfig(env)
	setSetDefaults(v, "auth", defaults.Auth)
	setSetDefaults(v, "games", defaults.Games)

	v.SetEnvPrefix("GAMEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if c.ConfigFile != "" {
		v.SetConfigFile(c.ConfigFile)
	} else {
		v.SetConfigName("gamehub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gamehub"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.ConfigFile != "" || !errors.As(err, &notFound) {
			return endpoint.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var out endpoint.Config
	if err := v.Unmarshal(&out); err != nil {
		return endpoint.Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	out.Environment = env

	if err := out.Validate(); err != nil {
		return endpoint.Config{}, err
	}
	return out, nil
}

func setSetDefaults(v *viper.Viper, prefix string, set endpoint.Set) {
	v.SetDefault(prefix+".primary", set.Primary)
	v.SetDefault(prefix+".lan", set.LANAlternate)
	v.SetDefault(prefix+".emulator", set.EmulatorAlternate)
	v.SetDefault(prefix+".production", set.Production)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
