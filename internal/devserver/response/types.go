package response

import (
	"time"

	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/model"
)

// Session is returned by login and registration
type Session struct {
	Token   string           `json:"token"`
	User    model.UserRecord `json:"user"`
	Message string           `json:"message"`
}

// User is returned by check and profile updates
type User struct {
	User    model.UserRecord `json:"user"`
	Message string           `json:"message,omitempty"`
}

// Comment is a comment as the backend serves it
type Comment struct {
	ID        string `json:"id"`
	GameID    string `json:"gameId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"createdAt"`
	Likes     int    `json:"likes"`
	IsLiked   bool   `json:"isLiked"`
}

// CommentFromBackend converts a stored comment as seen by viewer (empty for a guest)
func CommentFromBackend(c backend.Comment, viewer model.UserID) Comment {
	return Comment{
		ID:        string(c.ID),
		GameID:    string(c.GameID),
		Username:  c.Username,
		Content:   c.Content,
		Rating:    c.Rating,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		Likes:     len(c.LikedBy),
		IsLiked:   viewer != "" && c.LikedBy[viewer],
	}
}

// Comments wraps a comment list
type Comments struct {
	Comments []Comment `json:"comments"`
}

// CommentEnvelope wraps a single created comment
type CommentEnvelope struct {
	Comment Comment `json:"comment"`
}

// Rating is the aggregate after a rating
type Rating struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"ratingCount"`
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
}
