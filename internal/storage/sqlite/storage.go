package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const upsertSQL = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// Config holds SQLite settings
type Config struct {
	// Path is the database file; its directory is created if missing
	Path string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a config storing the database under the user's home
func DefaultConfig() Config {
	return Config{
		Path:            defaultPath(),
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gamehub", "gamehub.db")
	}
	return filepath.Join(home, ".gamehub", "gamehub.db")
}

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens (and migrates) the database at cfg.Path
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("sqlite storage ready", "path", cfg.Path)
	return &Storage{db: db}, nil
}

// dsn sets the pragmas on every pooled connection, not just the first
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")
	return "file:" + path + "?" + params.Encode()
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	token, user, err := storage.EncodeSession(session)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertSQL, storage.KeyAuthToken, []byte(token)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsertSQL, storage.KeyUserData, user); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Storage) LoadSession(ctx context.Context) (*model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key IN (?, ?)`, storage.KeyAuthToken, storage.KeyUserData)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var token string
	var user []byte
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		switch key {
		case storage.KeyAuthToken:
			token = string(value)
		case storage.KeyUserData:
			user = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return storage.DecodeSession(token, user)
}

func (s *Storage) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE key IN (?, ?)`, storage.KeyAuthToken, storage.KeyUserData)
	return err
}

// Settings operations

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	return s.setJSON(ctx, storage.KeyAppSettings, settings)
}

func (s *Storage) LoadSettings(ctx context.Context) (*model.Settings, error) {
	data, err := s.get(ctx, storage.KeyAppSettings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoSettings
	}
	if err != nil {
		return nil, err
	}
	return storage.DecodeSettings(data)
}

// Achievement operations

func (s *Storage) SaveAchievements(ctx context.Context, progress []model.AchievementProgress) error {
	return s.setJSON(ctx, storage.KeyAchievements, progress)
}

func (s *Storage) LoadAchievements(ctx context.Context) ([]model.AchievementProgress, error) {
	data, err := s.get(ctx, storage.KeyAchievements)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNoAchievements
	}
	if err != nil {
		return nil, err
	}
	return storage.DecodeAchievements(data)
}

func (s *Storage) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertSQL, key, data)
	return err
}

func (s *Storage) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	return value, err
}
