package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/model"
)

// APIError is the error body. The client shows Message verbatim.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidAdminKey    = "INVALID_ADMIN_KEY"
	CodeWrongPassword      = "WRONG_PASSWORD"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeCommentNotFound    = "COMMENT_NOT_FOUND"
	CodeNotCommentAuthor   = "NOT_COMMENT_AUTHOR"
	CodeInvalidRating      = "INVALID_RATING"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.apiError)
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, backend.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Sai tên đăng nhập hoặc mật khẩu"}}
	case errors.Is(err, backend.ErrInvalidToken), errors.Is(err, backend.ErrUserNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Phiên đăng nhập không hợp lệ"}}
	case errors.Is(err, backend.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Tên đăng nhập đã tồn tại"}}
	case errors.Is(err, backend.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email đã được sử dụng"}}
	case errors.Is(err, backend.ErrInvalidAdminKey):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidAdminKey, "Mã quản trị không hợp lệ"}}
	case errors.Is(err, backend.ErrWrongPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeWrongPassword, "Mật khẩu hiện tại không đúng"}}
	case errors.Is(err, backend.ErrNotCommentAuthor):
		return &httpError{http.StatusForbidden, APIError{CodeNotCommentAuthor, "Bạn chỉ có thể xoá bình luận của mình"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Không tìm thấy trò chơi"}}
	case errors.Is(err, model.ErrCommentNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCommentNotFound, "Không tìm thấy bình luận"}}
	case errors.Is(err, model.ErrInvalidRating):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRating, "Đánh giá phải từ 1 đến 5 sao"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Lỗi máy chủ nội bộ"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Vui lòng đăng nhập"}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Không tìm thấy"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Lỗi máy chủ nội bộ"}}
}
