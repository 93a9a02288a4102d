package model

// UserID uniquely identifies a backend user account
type UserID string

// Role distinguishes regular players from administrators
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserRecord is the account snapshot owned by a Session.
// It is overwritten whenever a profile or password flow succeeds.
type UserRecord struct {
	ID               UserID `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	SelectedAvatarID string `json:"selectedAvatarId"`
	Score            int    `json:"score"`
	Level            int    `json:"level"`
	Coins            int    `json:"coins"`
	Role             Role   `json:"role,omitempty"`
}

// Session is the locally persisted proof of login
type Session struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// Valid reports whether the session carries a usable token.
// A session without a token is a guest, never a partial login.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.ID != ""
}
