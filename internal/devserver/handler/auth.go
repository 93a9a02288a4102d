package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/gamehub/internal/devserver/apierr"
	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/devserver/middleware"
	"github.com/mcoot/gamehub/internal/devserver/response"
	"github.com/mcoot/gamehub/internal/model"
)

const minPasswordLength = 6

// AuthHandler handles the /api/auth endpoints
type AuthHandler struct {
	accounts *backend.Accounts
	tokens   *backend.Tokens
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *backend.Accounts, tokens *backend.Tokens) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Vui lòng nhập tên đăng nhập và mật khẩu"))
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, user, "Đăng nhập thành công")
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, model.RoleUser)
}

// RegisterAdmin handles POST /api/auth/register-admin
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, model.RoleAdmin)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, role model.Role) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		apierr.WriteError(w, apierr.NewInvalidRequestError("Vui lòng điền đầy đủ thông tin"))
		return
	case !strings.Contains(req.Email, "@"):
		apierr.WriteError(w, apierr.NewInvalidRequestError("Email không hợp lệ"))
		return
	case len([]rune(req.Password)) < minPasswordLength:
		apierr.WriteError(w, apierr.NewInvalidRequestError("Mật khẩu phải có ít nhất 6 ký tự"))
		return
	}

	user, err := h.accounts.Register(r.Context(), backend.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		AdminKey: req.AdminKey,
	}, role)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, user, "Đăng ký thành công")
}

// Check handles GET /api/auth/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	user, err := h.accounts.Get(r.Context(), claims.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.User{User: *user})
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if len([]rune(req.NewPassword)) < minPasswordLength {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Mật khẩu phải có ít nhất 6 ký tự"))
		return
	}

	user, err := h.accounts.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.User{User: *user, Message: "Đổi mật khẩu thành công"})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Email không hợp lệ"))
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), claims.UserID, req.Email, req.SelectedAvatarID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.User{User: *user, Message: "Cập nhật thành công"})
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, user *model.UserRecord, message string) {
	token, err := h.tokens.Issue(*user)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, status, response.Session{Token: token, User: *user, Message: message})
}
