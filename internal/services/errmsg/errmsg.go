// Package errmsg turns internal failures into the Vietnamese messages shown to users
package errmsg

import (
	"context"
	"errors"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/remote"
)

// User-facing messages
const (
	MsgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không chính xác."
	MsgSessionExpired     = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
	MsgServerError        = "Máy chủ đang gặp sự cố. Vui lòng thử lại sau."
	MsgConnectivity       = "Không thể kết nối đến máy chủ. Vui lòng kiểm tra kết nối mạng."
	MsgTimeout            = "Máy chủ không phản hồi. Vui lòng thử lại sau."
	MsgMalformedResponse  = "Máy chủ trả về dữ liệu không hợp lệ (có thể sai địa chỉ API)."
	MsgRejected           = "Yêu cầu không được chấp nhận. Vui lòng thử lại."
	MsgCancelled          = "Yêu cầu đã bị huỷ."
	MsgUnknown            = "Đã xảy ra lỗi. Vui lòng thử lại."

	MsgMissingFields     = "Vui lòng nhập đầy đủ thông tin."
	MsgPasswordTooShort  = "Mật khẩu phải có ít nhất 6 ký tự."
	MsgPasswordMismatch  = "Mật khẩu xác nhận không khớp."
	MsgInvalidEmail      = "Email không hợp lệ."
	MsgLoginRequired     = "Vui lòng đăng nhập để tiếp tục."
	MsgLoginToComment    = "Vui lòng đăng nhập để bình luận."
	MsgInvalidRating     = "Đánh giá phải từ 1 đến 5 sao."
	MsgEmptyComment      = "Vui lòng nhập nội dung bình luận."
	MsgGameNotFound      = "Không tìm thấy trò chơi."
	MsgUnknownSetting    = "Cài đặt không hợp lệ."
	MsgInvalidSettingVal = "Giá trị cài đặt không hợp lệ."
)

// Translate converts err into a *model.Error carrying a user-facing message.
// Errors that are already *model.Error pass through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var me *model.Error
	if errors.As(err, &me) {
		return me
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &model.Error{Kind: model.KindUnknown, Message: MsgCancelled, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &model.Error{Kind: model.KindTimeout, Message: MsgTimeout, Err: err}
	}

	kind := remote.KindOf(err)
	return &model.Error{Kind: kind, Message: messageFor(kind, err), Err: err}
}

// New creates a user-facing error of the given kind
func New(kind model.ErrorKind, message string, err error) *model.Error {
	return &model.Error{Kind: kind, Message: message, Err: err}
}

func messageFor(kind model.ErrorKind, err error) string {
	switch kind {
	case model.KindUnauthorized:
		return MsgSessionExpired
	case model.KindServerError:
		return MsgServerError
	case model.KindTimeout:
		return MsgTimeout
	case model.KindConnectivity:
		return MsgConnectivity
	case model.KindMalformedResponse:
		return MsgMalformedResponse
	case model.KindRejected:
		if re, ok := remote.AsError(err); ok && re.ServerMessage != "" {
			return re.ServerMessage
		}
		return MsgRejected
	default:
		return MsgUnknown
	}
}
