package catalog

import (
	"fmt"

	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
)

// Adapter normalizes raw catalog records into model.Game
type Adapter struct {
	partnerID string
	random    random.Random
}

// NewAdapter creates an adapter for the given Gamezop partner id
func NewAdapter(partnerID string, rnd random.Random) *Adapter {
	return &Adapter{
		partnerID: partnerID,
		random:    rnd,
	}
}

// PartnerID returns the partner id used to build play URLs
func (a *Adapter) PartnerID() string {
	return a.partnerID
}

// PlayURL returns the hosted play page of a game
func (a *Adapter) PlayURL(id string) string {
	return fmt.Sprintf("https://%s.play.gamezop.com/g/%s", a.partnerID, id)
}

// Normalize converts either raw shape into the single Game record.
// A nil raw game yields the zero Game.
func (a *Adapter) Normalize(raw RawGame) model.Game {
	switch g := raw.(type) {
	case LiveGame:
		return a.normalizeLive(g)
	case *LiveGame:
		return a.normalizeLive(*g)
	case DemoGame:
		return a.normalizeDemo(g)
	case *DemoGame:
		return a.normalizeDemo(*g)
	default:
		return model.Game{}
	}
}

// NormalizeLive normalizes a batch of live records
func (a *Adapter) NormalizeLive(raw []LiveGame) []model.Game {
	games := make([]model.Game, len(raw))
	for i, g := range raw {
		games[i] = a.normalizeLive(g)
	}
	return games
}

// NormalizeDemo normalizes a batch of demo records
func (a *Adapter) NormalizeDemo(raw []DemoGame) []model.Game {
	games := make([]model.Game, len(raw))
	for i, g := range raw {
		games[i] = a.normalizeDemo(g)
	}
	return games
}

func (a *Adapter) normalizeLive(g LiveGame) model.Game {
	return model.Game{
		ID:                  model.GameID(g.Code),
		Name:                g.Name.English(),
		Description:         g.Description.English(),
		ThumbnailURL:        firstNonEmpty(g.Assets.Cover, g.Assets.Brick, g.Assets.Thumb),
		Category:            LiveCategory(g.Category()),
		AverageSessionLabel: SessionLabel(a.estimateSession(g)),
		PlayCountLabel:      PlayCountLabel(g.GamePlays),
		PlayURL:             a.PlayURL(g.Code),
		EmbedURL:            firstNonEmpty(g.URL, a.PlayURL(g.Code)),
		Screenshots:         screenshots(g.Assets.Screens),
		BannerURL:           firstNonEmpty(g.Assets.Wall, g.Assets.Cover),
	}
}

func (a *Adapter) normalizeDemo(g DemoGame) model.Game {
	return model.Game{
		ID:                  model.GameID(g.ID),
		Name:                g.Name,
		Description:         g.Description,
		ThumbnailURL:        g.Thumbnail,
		Category:            DemoCategory(g.Category),
		AverageSessionLabel: SessionLabel(durationMinutes(g.DurationSeconds)),
		PlayCountLabel:      PlayCountLabel(g.Plays),
		PlayURL:             a.PlayURL(g.ID),
		EmbedURL:            firstNonEmpty(g.URL, a.PlayURL(g.ID)),
		Screenshots:         screenshots(g.Screenshots),
		BannerURL:           firstNonEmpty(g.Banner, g.Thumbnail),
	}
}

// estimateSession guesses minutes per session from the game's orientation.
// Portrait games tend to be quick casual plays.
func (a *Adapter) estimateSession(g LiveGame) int {
	base := landscapeBaseMinutes
	if g.Portrait() {
		base = portraitBaseMinutes
	}
	return base + a.random.Intn(sessionJitterMinutes)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func screenshots(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
