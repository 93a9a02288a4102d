package model

// GameID identifies a catalog game (a Gamezop game code)
type GameID string

// Category is one of the internal catalog categories
type Category string

const (
	CategoryAction    Category = "Action"
	CategoryAdventure Category = "Adventure"
	CategoryArcade    Category = "Arcade"
	CategoryPuzzle    Category = "Puzzle"
	CategorySports    Category = "Sports"
	CategoryRacing    Category = "Racing"
	CategoryStrategy  Category = "Strategy"
	CategoryCasual    Category = "Casual"
)

// DefaultCategory is used for any category the catalog tables do not know
const DefaultCategory = CategoryArcade

// Game is the normalized catalog record every source converges on.
// It only lives in memory; nothing persists it.
type Game struct {
	ID                  GameID   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	ThumbnailURL        string   `json:"thumbnailUrl"`
	Category            Category `json:"category"`
	AverageSessionLabel string   `json:"averageSession"`
	PlayCountLabel      string   `json:"playCount"`
	PlayURL             string   `json:"playUrl"`
	EmbedURL            string   `json:"embedUrl"`
	Screenshots         []string `json:"screenshots"`
	BannerURL           string   `json:"bannerUrl"`

	// Fallback marks records substituted from the built-in demo catalog
	Fallback bool `json:"fallback,omitempty"`
}
