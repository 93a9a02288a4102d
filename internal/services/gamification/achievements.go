package gamification

import "github.com/mcoot/gamehub/internal/model"

// EventType is something the user did that may count towards an achievement
type EventType string

const (
	EventGamePlayed    EventType = "game_played"
	EventCommentPosted EventType = "comment_posted"
	EventGameRated     EventType = "game_rated"
)

// Event is one occurrence of an EventType
type Event struct {
	Type   EventType
	GameID model.GameID
}

// definition ties an achievement to the event that advances it
type definition struct {
	model.Achievement
	event EventType

	// distinct counts each game at most once
	distinct bool
}

var definitions = []definition{
	{
		Achievement: model.Achievement{ID: "first_game", Title: "Người chơi mới", Description: "Chơi trò chơi đầu tiên", Target: 1, Reward: 10},
		event:       EventGamePlayed,
	},
	{
		Achievement: model.Achievement{ID: "game_explorer", Title: "Nhà thám hiểm", Description: "Chơi 5 trò chơi khác nhau", Target: 5, Reward: 50},
		event:       EventGamePlayed,
		distinct:    true,
	},
	{
		Achievement: model.Achievement{ID: "first_comment", Title: "Lên tiếng", Description: "Viết bình luận đầu tiên", Target: 1, Reward: 10},
		event:       EventCommentPosted,
	},
	{
		Achievement: model.Achievement{ID: "critic", Title: "Nhà phê bình", Description: "Viết 10 bình luận", Target: 10, Reward: 100},
		event:       EventCommentPosted,
	},
	{
		Achievement: model.Achievement{ID: "rater", Title: "Giám khảo", Description: "Đánh giá 5 trò chơi khác nhau", Target: 5, Reward: 30},
		event:       EventGameRated,
		distinct:    true,
	},
}

// Definitions returns the fixed achievement table
func Definitions() []model.Achievement {
	out := make([]model.Achievement, len(definitions))
	for i, d := range definitions {
		out[i] = d.Achievement
	}
	return out
}
