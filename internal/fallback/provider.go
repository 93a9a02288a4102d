package fallback

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/mcoot/gamehub/internal/catalog"
	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
)

// mockComment is a template for one fixed fallback comment
type mockComment struct {
	id        string
	author    string
	text      string
	rating    int
	timestamp string
	likes     int
}

var mockComments = []mockComment{
	{"mock-1", "Minh Anh", "Game rất hay, đồ hoạ đẹp và dễ chơi!", 5, "2024-01-15T08:30:00Z", 24},
	{"mock-2", "Hoàng Nam", "Chơi giải trí lúc rảnh rất hợp, mong có thêm màn mới.", 4, "2024-01-14T14:12:00Z", 12},
	{"mock-3", "Thu Trang", "Hơi khó ở mấy màn cuối nhưng vẫn rất cuốn.", 4, "2024-01-13T19:45:00Z", 8},
	{"mock-4", "Quốc Bảo", "Tải hơi lâu nhưng chơi mượt.", 3, "2024-01-12T10:05:00Z", 3},
	{"mock-5", "Lan Chi", "Cả nhà mình đều thích game này!", 5, "2024-01-10T21:20:00Z", 17},
}

// Provider supplies deterministic substitute data for when no endpoint answers
type Provider struct {
	adapter *catalog.Adapter
	clock   clock.Clock
}

// New creates a provider. The adapter's partner id is used for play URLs.
func New(partnerID string, clk clock.Clock) *Provider {
	return &Provider{
		adapter: catalog.NewAdapter(partnerID, random.New()),
		clock:   clk,
	}
}

// Comments returns the fixed mock comment list for gameID
func (p *Provider) Comments(gameID model.GameID) []model.Comment {
	comments := make([]model.Comment, len(mockComments))
	for i, m := range mockComments {
		comments[i] = model.Comment{
			ID:        model.CommentID(m.id),
			GameID:    gameID,
			Author:    m.author,
			Text:      m.text,
			Rating:    m.rating,
			Timestamp: m.timestamp,
			LikeCount: m.likes,
			Fallback:  true,
		}
	}
	return comments
}

// Games returns the demo catalog normalized to model.Game
func (p *Provider) Games() []model.Game {
	games := p.adapter.NormalizeDemo(demoGames)
	for i := range games {
		games[i].Fallback = true
	}
	return games
}

// Game returns the demo catalog entry with the given id
func (p *Provider) Game(id model.GameID) (model.Game, bool) {
	for _, g := range p.Games() {
		if g.ID == id {
			return g, true
		}
	}
	return model.Game{}, false
}

// LocalComment synthesizes the comment shown after a write that did not reach the server
func (p *Provider) LocalComment(gameID model.GameID, author, text string, rating int) model.Comment {
	return model.Comment{
		ID:        model.CommentID("local-" + gonanoid.Must()),
		GameID:    gameID,
		Author:    author,
		Text:      text,
		Rating:    rating,
		Timestamp: p.clock.Now().UTC().Format(time.RFC3339),
		Local:     true,
	}
}
