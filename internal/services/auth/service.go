package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/services/errmsg"
	"github.com/mcoot/gamehub/internal/storage"
)

// MinPasswordLength is the shortest password accepted client-side
const MinPasswordLength = 6

// RegisterInput holds the sign-up form fields
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string

	// AdminKey is only sent when registering an administrator
	AdminKey string
}

// RegisterResult is the outcome of a registration. Session is nil when
// the backend created the account without issuing a token.
type RegisterResult struct {
	User    model.UserRecord
	Session *model.Session
	Message string
}

// ProfileUpdate holds the profile fields to change; nil fields are left alone
type ProfileUpdate struct {
	Email            *string `json:"email,omitempty"`
	SelectedAvatarID *string `json:"selectedAvatarId,omitempty"`
}

// Service is the client side of the auth API. It owns the current session.
type Service struct {
	target  *remote.Target
	storage storage.Storage
	logger  *slog.Logger

	mu      sync.RWMutex
	session *model.Session
}

// New creates a new auth service
func New(target *remote.Target, storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		target:  target,
		storage: storage,
		logger:  logger,
	}
}

// Wire types

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionResponse struct {
	Token   string           `json:"token"`
	User    model.UserRecord `json:"user"`
	Message string           `json:"message"`
}

func (r *sessionResponse) Validate() error {
	if r.Token == "" || r.User.ID == "" {
		return errors.New("response has no token or user")
	}
	return nil
}

type userResponse struct {
	Token   string           `json:"token"`
	User    model.UserRecord `json:"user"`
	Message string           `json:"message"`
}

func (r *userResponse) Validate() error {
	if r.User.ID == "" {
		return errors.New("response has no user")
	}
	return nil
}

type messageResponse struct {
	Message string            `json:"message"`
	User    *model.UserRecord `json:"user"`
}

// Session operations

// Current returns a copy of the active session, or nil for a guest
func (s *Service) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	session := *s.session
	return &session
}

// Restore loads the persisted session at startup. A missing or
// half-written session leaves the client a guest without error.
func (s *Service) Restore(ctx context.Context) (*model.Session, error) {
	session, err := s.storage.LoadSession(ctx)
	if errors.Is(err, model.ErrNoSession) {
		s.setSession(nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	s.setSession(session)
	s.logger.Debug("session restored", "user", session.User.Username)
	return s.Current(), nil
}

// Login authenticates and persists the new session
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.NewValidationError(errmsg.MsgMissingFields)
	}

	resp, err := remote.Call[sessionResponse](ctx, s.target, remote.Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   credentials{Username: username, Password: password},
	})
	if err != nil {
		if remote.IsUnauthorized(err) {
			return nil, errmsg.New(model.KindUnauthorized, errmsg.MsgInvalidCredentials, err)
		}
		s.logger.Warn("login failed", "username", username, "error", err)
		return nil, errmsg.Translate(err)
	}

	session := &model.Session{Token: resp.Token, User: resp.User}
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("logged in", "user", session.User.Username)
	return s.Current(), nil
}

// Register creates an account. When the backend issues a token the
// new session is persisted and becomes current.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	return s.register(ctx, "/register", in)
}

// RegisterAdmin creates an administrator account using the admin key
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if strings.TrimSpace(in.AdminKey) == "" {
		return nil, model.NewValidationError(errmsg.MsgMissingFields)
	}
	return s.register(ctx, "/register-admin", in)
}

func (s *Service) register(ctx context.Context, path string, in RegisterInput) (*RegisterResult, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	resp, err := remote.Call[userResponse](ctx, s.target, remote.Request{
		Method: http.MethodPost,
		Path:   path,
		Body: registerRequest{
			Username: strings.TrimSpace(in.Username),
			Email:    strings.TrimSpace(in.Email),
			Password: in.Password,
			AdminKey: in.AdminKey,
		},
	})
	if err != nil {
		s.logger.Warn("registration failed", "username", in.Username, "error", err)
		return nil, errmsg.Translate(err)
	}

	result := &RegisterResult{User: resp.User, Message: resp.Message}
	if resp.Token != "" {
		session := &model.Session{Token: resp.Token, User: resp.User}
		if err := s.persist(ctx, session); err != nil {
			return nil, err
		}
		result.Session = s.Current()
	}

	s.logger.Info("registered", "user", resp.User.Username, "logged_in", result.Session != nil)
	return result, nil
}

// CheckAuth asks the backend whether the current token is still valid.
// A 401 ends the session; a connectivity failure keeps it.
func (s *Service) CheckAuth(ctx context.Context) (*model.Session, error) {
	session := s.Current()
	if session == nil {
		return nil, model.ErrNoSession
	}

	resp, err := remote.Call[userResponse](ctx, s.target, remote.Request{
		Method: http.MethodGet,
		Path:   "/check",
		Token:  session.Token,
	})
	if err != nil {
		return nil, s.authenticatedFailure(ctx, err)
	}

	session.User = resp.User
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	return s.Current(), nil
}

// Logout forgets the session locally
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.setSession(nil)
	s.logger.Info("logged out")
	return nil
}

// Expire ends the session after the backend rejected its token
func (s *Service) Expire(ctx context.Context) error {
	s.logger.Info("session expired")
	return s.Logout(ctx)
}

// ChangePassword changes the password of the logged-in user
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	session := s.Current()
	if session == nil {
		return errmsg.New(model.KindUnauthorized, errmsg.MsgLoginRequired, model.ErrNoSession)
	}
	if current == "" || next == "" || confirm == "" {
		return model.NewValidationError(errmsg.MsgMissingFields)
	}
	if len([]rune(next)) < MinPasswordLength {
		return model.NewValidationError(errmsg.MsgPasswordTooShort)
	}
	if next != confirm {
		return model.NewValidationError(errmsg.MsgPasswordMismatch)
	}

	resp, err := remote.Call[messageResponse](ctx, s.target, remote.Request{
		Method: http.MethodPost,
		Path:   "/change-password",
		Token:  session.Token,
		Body:   changePasswordRequest{CurrentPassword: current, NewPassword: next},
	})
	if err != nil {
		return s.authenticatedFailure(ctx, err)
	}

	if resp.User != nil && resp.User.ID != "" {
		session.User = *resp.User
		return s.persist(ctx, session)
	}
	return nil
}

// UpdateProfile writes profile changes to the backend, then overwrites the persisted user
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.UserRecord, error) {
	session := s.Current()
	if session == nil {
		return nil, errmsg.New(model.KindUnauthorized, errmsg.MsgLoginRequired, model.ErrNoSession)
	}
	if update.Email == nil && update.SelectedAvatarID == nil {
		return nil, model.NewValidationError(errmsg.MsgMissingFields)
	}
	if update.Email != nil && !strings.Contains(*update.Email, "@") {
		return nil, model.NewValidationError(errmsg.MsgInvalidEmail)
	}

	resp, err := remote.Call[userResponse](ctx, s.target, remote.Request{
		Method: http.MethodPut,
		Path:   "/profile",
		Token:  session.Token,
		Body:   update,
	})
	if err != nil {
		return nil, s.authenticatedFailure(ctx, err)
	}

	session.User = resp.User
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateLocalUser applies fn to the persisted user record without a network call
func (s *Service) UpdateLocalUser(ctx context.Context, fn func(*model.UserRecord)) error {
	session := s.Current()
	if session == nil {
		return model.ErrNoSession
	}
	fn(&session.User)
	return s.persist(ctx, session)
}

// authenticatedFailure maps an error from a call made with the session
// token. A 401 means the token is no longer accepted.
func (s *Service) authenticatedFailure(ctx context.Context, err error) error {
	if remote.IsUnauthorized(err) {
		if clearErr := s.Expire(ctx); clearErr != nil {
			s.logger.Error("failed to clear expired session", "error", clearErr)
		}
		return errmsg.New(model.KindUnauthorized, errmsg.MsgSessionExpired, err)
	}
	return errmsg.Translate(err)
}

func (s *Service) persist(ctx context.Context, session *model.Session) error {
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.setSession(session)
	return nil
}

func (s *Service) setSession(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return
	}
	copied := *session
	s.session = &copied
}

func validateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" ||
		in.Password == "" || in.ConfirmPassword == "" {
		return model.NewValidationError(errmsg.MsgMissingFields)
	}
	if !strings.Contains(in.Email, "@") {
		return model.NewValidationError(errmsg.MsgInvalidEmail)
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		return model.NewValidationError(errmsg.MsgPasswordTooShort)
	}
	if in.Password != in.ConfirmPassword {
		return model.NewValidationError(errmsg.MsgPasswordMismatch)
	}
	return nil
}
