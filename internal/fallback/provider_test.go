package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/model"
)

func newTestProvider() (*Provider, *mocks.MockClock) {
	clk := mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return New("demo", clk), clk
}

func TestComments(t *testing.T) {
	p, _ := newTestProvider()

	comments := p.Comments("game-42")
	require.Len(t, comments, 5)
	for _, c := range comments {
		assert.Equal(t, model.GameID("game-42"), c.GameID)
		assert.True(t, c.Fallback)
		assert.False(t, c.Local)
		assert.True(t, model.ValidRating(c.Rating))
		_, err := time.Parse(time.RFC3339, c.Timestamp)
		assert.NoError(t, err)
	}

	// Deterministic across calls
	assert.Equal(t, comments, p.Comments("game-42"))
}

func TestGames(t *testing.T) {
	p, _ := newTestProvider()

	games := p.Games()
	require.Len(t, games, 5)

	ids := make([]model.GameID, len(games))
	for i, g := range games {
		ids[i] = g.ID
		assert.True(t, g.Fallback)
		assert.NotEmpty(t, g.Name)
		assert.Equal(t, "https://demo.play.gamezop.com/g/"+string(g.ID), g.PlayURL)
		assert.Equal(t, g.PlayURL, g.EmbedURL)
		assert.True(t, strings.HasSuffix(g.AverageSessionLabel, " phút"))
	}
	assert.Equal(t, []model.GameID{"HJXei0j", "HkTQJhTXqRS", "Rt5ytrd0m", "UYiznUAya", "ByQxJnp7qRB"}, ids)
	assert.Equal(t, games, p.Games())

	assert.Equal(t, model.CategoryRacing, games[3].Category)
	assert.Equal(t, "1.2M", games[0].PlayCountLabel)
}

func TestGame(t *testing.T) {
	p, _ := newTestProvider()

	g, ok := p.Game("Rt5ytrd0m")
	require.True(t, ok)
	assert.Equal(t, "Ninja Run", g.Name)

	_, ok = p.Game("unknown")
	assert.False(t, ok)
}

func TestLocalComment(t *testing.T) {
	p, clk := newTestProvider()

	first := p.LocalComment("g1", "alice", "hay quá", 5)
	clk.Advance(time.Minute)
	second := p.LocalComment("g1", "alice", "hay quá", 5)

	assert.True(t, first.Local)
	assert.False(t, first.Fallback)
	assert.Equal(t, model.GameID("g1"), first.GameID)
	assert.Equal(t, "2024-03-01T12:00:00Z", first.Timestamp)
	assert.Equal(t, "2024-03-01T12:01:00Z", second.Timestamp)
	assert.True(t, strings.HasPrefix(string(first.ID), "local-"))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDemoGamesIsACopy(t *testing.T) {
	raw := DemoGames()
	raw[0].Name = "changed"
	assert.Equal(t, "Bubble Wipeout", DemoGames()[0].Name)
}
