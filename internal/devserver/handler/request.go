package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/gamehub/internal/devserver/apierr"
)

// Request bodies

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type profileRequest struct {
	Email            *string `json:"email"`
	SelectedAvatarID *string `json:"selectedAvatarId"`
}

type commentRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// decode reads a JSON body, writing a 400 on failure
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Dữ liệu gửi lên không hợp lệ"))
		return false
	}
	return true
}
