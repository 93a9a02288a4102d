package model

// CommentID identifies a comment
type CommentID string

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Comment is a user review attached to a game
type Comment struct {
	ID            CommentID `json:"id"`
	GameID        GameID    `json:"gameId"`
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	Rating        int       `json:"rating"`
	Timestamp     string    `json:"timestamp"` // ISO-8601
	LikeCount     int       `json:"likeCount"`
	LikedByViewer bool      `json:"likedByViewer"`

	// Fallback marks mock comments shown when the backend is unreachable
	Fallback bool `json:"fallback,omitempty"`
	// Local marks a comment synthesized on the client after a failed write
	Local bool `json:"local,omitempty"`
}

// ValidRating reports whether r is within MinRating..MaxRating
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
