package devserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/devserver"
	"github.com/mcoot/gamehub/internal/devserver/response"
	"github.com/mcoot/gamehub/internal/testutil"
)

type testServer struct {
	handler http.Handler
	clock   *mocks.MockClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := devserver.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AdminKey = "key-1"
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	handler, err := devserver.NewHandler(cfg, clk, testutil.NopLogger())
	require.NoError(t, err)
	return &testServer{handler: handler, clock: clk}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "demo", "password": "demo123"}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var session response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, decodeMessage(t, rr))
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodGet, "/api/auth/check", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "demo", user.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/auth/login", map[string]string{"username": "demo", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Sai tên đăng nhập hoặc mật khẩu", decodeMessage(t, rr))
}

func TestCheckRequiresValidToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/auth/check", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/auth/check", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := ts.login(t)
	ts.clock.Advance(25 * time.Hour)
	rr = ts.request(http.MethodGet, "/api/auth/check", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@x.vn", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var session response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice", session.User.Username)

	rr = ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "other@x.vn", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bob", "email": "bob@x.vn", "password": "123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterAdmin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/auth/register-admin", map[string]string{
		"username": "root", "email": "root@x.vn", "password": "secret1", "adminKey": "wrong",
	}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Mã quản trị không hợp lệ", decodeMessage(t, rr))

	rr = ts.request(http.MethodPost, "/api/auth/register-admin", map[string]string{
		"username": "root", "email": "root@x.vn", "password": "secret1", "adminKey": "key-1",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var session response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.Equal(t, "admin", string(session.User.Role))
}

func TestChangePasswordAndProfile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "wrong", "newPassword": "newpass1",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/auth/change-password", map[string]string{
		"currentPassword": "demo123", "newPassword": "newpass1",
	}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPut, "/api/auth/profile", map[string]string{"selectedAvatarId": "avatar-3"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "avatar-3", user.User.SelectedAvatarID)
}

func TestListGames(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/games", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var payload catalog.DemoPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Len(t, payload.Games, 5)

	rr = ts.request(http.MethodGet, "/api/games?category=racing&limit=3", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Games, 1)
	assert.Equal(t, "UYiznUAya", payload.Games[0].ID)

	rr = ts.request(http.MethodGet, "/api/games?limit=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/games/HJXei0j", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var payload catalog.DemoGamePayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "Bubble Wipeout", payload.Game.Name)

	rr = ts.request(http.MethodGet, "/api/games/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCommentFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/games/HJXei0j/comments", map[string]any{"content": "hay", "rating": 5}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/games/HJXei0j/comments", map[string]any{"content": "hay", "rating": 5}, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created response.CommentEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "demo", created.Comment.Username)
	assert.Equal(t, "2024-01-01T12:00:00Z", created.Comment.CreatedAt)

	rr = ts.request(http.MethodGet, "/api/games/HJXei0j/comments", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.Comments
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "hay", list.Comments[0].Content)

	rr = ts.request(http.MethodDelete, "/api/comments/"+created.Comment.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/comments/"+created.Comment.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCommentValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/games/HJXei0j/comments", map[string]any{"content": "  ", "rating": 5}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/games/HJXei0j/comments", map[string]any{"content": "hay", "rating": 9}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/games/missing/comments", map[string]any{"content": "hay", "rating": 3}, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	rr := ts.request(http.MethodPost, "/api/games/HJXei0j/rate", map[string]int{"rating": 4}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"averageRating":4,"ratingCount":1}`, rr.Body.String())
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get("X-Request-ID"))
}
