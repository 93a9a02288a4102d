package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamehub/internal/endpoint"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/services/errmsg"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/storage/storagetest"
	"github.com/mcoot/gamehub/internal/testutil"
)

var demoUser = model.UserRecord{ID: "u1", Username: "demo", Email: "demo@example.com", Level: 1}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeBackend is a minimal auth API
type fakeBackend struct {
	*httptest.Server
	hits       atomic.Int32
	checkCode  int
	lastBody   map[string]any
	issueToken bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{checkCode: http.StatusOK, issueToken: true}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "demo" || body["password"] != "demo123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1", "user": demoUser})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
		if b.lastBody["username"] == "taken" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Tên đăng nhập đã tồn tại"})
			return
		}
		user := model.UserRecord{ID: "u2", Username: b.lastBody["username"].(string), Email: b.lastBody["email"].(string)}
		resp := map[string]any{"user": user, "message": "created"}
		if b.issueToken {
			resp["token"] = "tok-2"
		}
		writeJSON(w, http.StatusCreated, resp)
	})
	mux.HandleFunc("POST /api/auth/register-admin", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
		if b.lastBody["adminKey"] != "key-1" {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Mã quản trị không hợp lệ"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"user": model.UserRecord{ID: "a1", Username: "boss", Role: model.RoleAdmin}})
	})
	mux.HandleFunc("GET /api/auth/check", func(w http.ResponseWriter, r *http.Request) {
		if b.checkCode != http.StatusOK {
			writeJSON(w, b.checkCode, map[string]string{"message": "nope"})
			return
		}
		user := demoUser
		user.Coins = 99
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	})
	mux.HandleFunc("PUT /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-abc" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		user := storagetest.SampleSession().User
		if v, ok := body["selectedAvatarId"]; ok {
			user.SelectedAvatarID = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	})
	mux.HandleFunc("POST /api/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["currentPassword"] != "old-secret" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Mật khẩu hiện tại không đúng"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

type ServiceSuite struct {
	suite.Suite
	primary   *fakeBackend
	alternate *fakeBackend
	storage   *memory.Storage
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.primary = newFakeBackend(s.T())
	s.alternate = newFakeBackend(s.T())
	s.storage = memory.New()
	s.ctx = context.Background()

	cfg := endpoint.Config{
		Environment: endpoint.EnvDevelopment,
		Auth: endpoint.Set{
			Primary:      s.primary.URL + "/api/auth",
			LANAlternate: s.alternate.URL + "/api/auth",
		},
	}
	rcfg := remote.DefaultConfig()
	dispatcher := remote.NewDispatcher(remote.NewHTTPClient(rcfg), rcfg, testutil.NopLogger())
	target := remote.NewTarget(dispatcher, cfg, endpoint.PurposeAuth)
	s.service = New(target, s.storage, testutil.NopLogger())
}

func (s *ServiceSuite) login() {
	s.Require().NoError(s.storage.SaveSession(s.ctx, storagetest.SampleSession()))
	_, err := s.service.Restore(s.ctx)
	s.Require().NoError(err)
}

// Login tests

func (s *ServiceSuite) TestLoginPersistsSession() {
	session, err := s.service.Login(s.ctx, "demo", "demo123")
	s.Require().NoError(err)
	s.Equal("tok-1", session.Token)
	s.Equal("demo", session.User.Username)

	stored, err := s.storage.LoadSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(session, stored)
	s.Equal(session, s.service.Current())
}

func (s *ServiceSuite) TestLoginWrongPasswordStopsAtPrimary() {
	_, err := s.service.Login(s.ctx, "demo", "wrong")

	s.Require().Error(err)
	s.Equal("Tên đăng nhập hoặc mật khẩu không chính xác.", err.Error())
	s.Equal(model.KindUnauthorized, model.KindOf(err))
	s.Equal(int32(1), s.primary.hits.Load())
	s.Equal(int32(0), s.alternate.hits.Load())
	s.Nil(s.service.Current())
}

func (s *ServiceSuite) TestLoginValidation() {
	_, err := s.service.Login(s.ctx, "  ", "x")
	s.Equal(errmsg.MsgMissingFields, err.Error())
	s.Equal(model.KindValidation, model.KindOf(err))
	s.Equal(int32(0), s.primary.hits.Load())
}

func (s *ServiceSuite) TestLoginFallsThroughToAlternate() {
	s.primary.Close()

	session, err := s.service.Login(s.ctx, "demo", "demo123")
	s.Require().NoError(err)
	s.Equal("tok-1", session.Token)
	s.Equal(int32(1), s.alternate.hits.Load())
}

func (s *ServiceSuite) TestLoginAllEndpointsDown() {
	s.primary.Close()
	s.alternate.Close()

	_, err := s.service.Login(s.ctx, "demo", "demo123")
	s.Require().Error(err)
	s.Equal(errmsg.MsgConnectivity, err.Error())
}

// Register tests

func (s *ServiceSuite) TestRegisterValidation() {
	tests := []struct {
		in       RegisterInput
		expected string
	}{
		{RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1"}, errmsg.MsgMissingFields},
		{RegisterInput{Username: "a", Email: "abc", Password: "secret1", ConfirmPassword: "secret1"}, errmsg.MsgInvalidEmail},
		{RegisterInput{Username: "a", Email: "a@b.c", Password: "12345", ConfirmPassword: "12345"}, errmsg.MsgPasswordTooShort},
		{RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"}, errmsg.MsgPasswordMismatch},
	}
	for _, tt := range tests {
		_, err := s.service.Register(s.ctx, tt.in)
		s.Require().Error(err)
		s.Equal(tt.expected, err.Error())
	}
	s.Equal(int32(0), s.primary.hits.Load())
}

func (s *ServiceSuite) TestRegisterWithToken() {
	result, err := s.service.Register(s.ctx, RegisterInput{
		Username: "newbie", Email: "n@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Require().NoError(err)
	s.Require().NotNil(result.Session)
	s.Equal("tok-2", result.Session.Token)
	s.Equal("newbie", s.service.Current().User.Username)
	s.Nil(s.primary.lastBody["adminKey"])
}

func (s *ServiceSuite) TestRegisterWithoutToken() {
	s.primary.issueToken = false

	result, err := s.service.Register(s.ctx, RegisterInput{
		Username: "newbie", Email: "n@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Require().NoError(err)
	s.Nil(result.Session)
	s.Equal("newbie", result.User.Username)
	s.Nil(s.service.Current())

	_, err = s.storage.LoadSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ServiceSuite) TestRegisterConflictUsesServerMessage() {
	_, err := s.service.Register(s.ctx, RegisterInput{
		Username: "taken", Email: "t@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Require().Error(err)
	s.Equal("Tên đăng nhập đã tồn tại", err.Error())
	s.Equal(model.KindRejected, model.KindOf(err))
}

func (s *ServiceSuite) TestRegisterAdminSendsKey() {
	_, err := s.service.RegisterAdmin(s.ctx, RegisterInput{
		Username: "boss", Email: "b@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	s.Equal(errmsg.MsgMissingFields, err.Error())

	result, err := s.service.RegisterAdmin(s.ctx, RegisterInput{
		Username: "boss", Email: "b@example.com", Password: "secret1", ConfirmPassword: "secret1", AdminKey: "key-1",
	})
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, result.User.Role)
	s.Equal("key-1", s.primary.lastBody["adminKey"])
	s.Nil(result.Session)

	_, err = s.service.RegisterAdmin(s.ctx, RegisterInput{
		Username: "boss", Email: "b@example.com", Password: "secret1", ConfirmPassword: "secret1", AdminKey: "bad",
	})
	s.Require().Error(err)
	s.Equal("Mã quản trị không hợp lệ", err.Error())
}

// Restore / check tests

func (s *ServiceSuite) TestRestoreAsGuest() {
	session, err := s.service.Restore(s.ctx)
	s.NoError(err)
	s.Nil(session)
}

func (s *ServiceSuite) TestRestoreSession() {
	s.login()
	s.Equal("token-abc", s.service.Current().Token)
}

func (s *ServiceSuite) TestCheckAuthRefreshesUser() {
	s.login()

	session, err := s.service.CheckAuth(s.ctx)
	s.Require().NoError(err)
	s.Equal(99, session.User.Coins)

	stored, err := s.storage.LoadSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(99, stored.User.Coins)
	s.Equal("token-abc", stored.Token)
}

func (s *ServiceSuite) TestCheckAuthUnauthorizedClearsSession() {
	s.login()
	s.primary.checkCode = http.StatusUnauthorized

	_, err := s.service.CheckAuth(s.ctx)
	s.Require().Error(err)
	s.Equal(errmsg.MsgSessionExpired, err.Error())
	s.Nil(s.service.Current())

	_, err = s.storage.LoadSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ServiceSuite) TestCheckAuthOfflineKeepsSession() {
	s.login()
	s.primary.Close()
	s.alternate.Close()

	_, err := s.service.CheckAuth(s.ctx)
	s.Require().Error(err)
	s.NotNil(s.service.Current())

	_, err = s.storage.LoadSession(s.ctx)
	s.NoError(err)
}

func (s *ServiceSuite) TestCheckAuthAsGuest() {
	_, err := s.service.CheckAuth(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

func (s *ServiceSuite) TestLogout() {
	s.login()

	s.Require().NoError(s.service.Logout(s.ctx))
	s.Nil(s.service.Current())
	_, err := s.storage.LoadSession(s.ctx)
	s.ErrorIs(err, model.ErrNoSession)
}

// Profile / password tests

func (s *ServiceSuite) TestUpdateProfileOverwritesPersistedUser() {
	s.login()
	avatar := "avatar-7"

	user, err := s.service.UpdateProfile(s.ctx, ProfileUpdate{SelectedAvatarID: &avatar})
	s.Require().NoError(err)
	s.Equal("avatar-7", user.SelectedAvatarID)

	stored, err := s.storage.LoadSession(s.ctx)
	s.Require().NoError(err)
	s.Equal("avatar-7", stored.User.SelectedAvatarID)
}

func (s *ServiceSuite) TestUpdateProfileRequiresSession() {
	avatar := "avatar-7"
	_, err := s.service.UpdateProfile(s.ctx, ProfileUpdate{SelectedAvatarID: &avatar})
	s.Equal(errmsg.MsgLoginRequired, err.Error())
}

func (s *ServiceSuite) TestUpdateProfileInvalidEmail() {
	s.login()
	email := "nope"
	_, err := s.service.UpdateProfile(s.ctx, ProfileUpdate{Email: &email})
	s.Equal(errmsg.MsgInvalidEmail, err.Error())
}

func (s *ServiceSuite) TestChangePassword() {
	s.login()

	err := s.service.ChangePassword(s.ctx, "old-secret", "new-secret", "other")
	s.Equal(errmsg.MsgPasswordMismatch, err.Error())

	err = s.service.ChangePassword(s.ctx, "old-secret", "short", "short")
	s.Equal(errmsg.MsgPasswordTooShort, err.Error())

	err = s.service.ChangePassword(s.ctx, "wrong", "new-secret", "new-secret")
	s.Require().Error(err)
	s.Equal("Mật khẩu hiện tại không đúng", err.Error())
	s.NotNil(s.service.Current())

	s.NoError(s.service.ChangePassword(s.ctx, "old-secret", "new-secret", "new-secret"))
}

func (s *ServiceSuite) TestUpdateLocalUser() {
	s.login()

	err := s.service.UpdateLocalUser(s.ctx, func(u *model.UserRecord) { u.Coins += 10 })
	s.Require().NoError(err)

	stored, err := s.storage.LoadSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(60, stored.User.Coins)
	s.Equal(60, s.service.Current().User.Coins)
}
