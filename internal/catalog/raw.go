package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape is returned when a payload is valid JSON but not the
// catalog shape the decoder was asked for
var ErrUnexpectedShape = errors.New("unexpected catalog payload shape")

// Shape names the two known raw catalog formats
type Shape int

const (
	ShapeLive Shape = iota + 1
	ShapeDemo
)

func (s Shape) String() string {
	switch s {
	case ShapeLive:
		return "live"
	case ShapeDemo:
		return "demo"
	default:
		return "unknown"
	}
}

// RawGame is a catalog record as received, before normalization.
// Only LiveGame and DemoGame implement it.
type RawGame interface {
	Shape() Shape
	GameID() string
	sealed()
}

// LocalizedText accepts either a plain string or a {"en": "..."} object
type LocalizedText struct {
	Plain  string
	Values map[string]string
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Plain)
	}
	return json.Unmarshal(data, &t.Values)
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.Values != nil {
		return json.Marshal(t.Values)
	}
	return json.Marshal(t.Plain)
}

// English returns the "en" value, falling back to the plain string
func (t LocalizedText) English() string {
	if v := t.Values["en"]; v != "" {
		return v
	}
	return t.Plain
}

// LiveAssets holds the image URLs of a live record
type LiveAssets struct {
	Cover   string   `json:"cover"`
	Brick   string   `json:"brick"`
	Thumb   string   `json:"thumb"`
	Wall    string   `json:"wall"`
	Square  string   `json:"square"`
	Screens []string `json:"screens"`
}

// LiveGame is one record of the Gamezop games API
type LiveGame struct {
	Code        string              `json:"code"`
	URL         string              `json:"url"`
	Name        LocalizedText       `json:"name"`
	Description LocalizedText       `json:"description"`
	Assets      LiveAssets          `json:"assets"`
	Categories  map[string][]string `json:"categories"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	IsPortrait  bool                `json:"isPortrait"`
	GamePlays   int                 `json:"gamePlays"`
}

func (LiveGame) Shape() Shape     { return ShapeLive }
func (g LiveGame) GameID() string { return g.Code }
func (LiveGame) sealed()          {}

// Category returns the first English category, or ""
func (g LiveGame) Category() string {
	if cats := g.Categories["en"]; len(cats) > 0 {
		return cats[0]
	}
	return ""
}

// Portrait reports whether the game is played in portrait orientation
func (g LiveGame) Portrait() bool {
	return g.IsPortrait || g.Height > g.Width
}

// DemoGame is one record of the backend's flat games format
type DemoGame struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Thumbnail       string   `json:"thumbnail"`
	Banner          string   `json:"banner,omitempty"`
	Category        string   `json:"category"`
	DurationSeconds int      `json:"durationSeconds"`
	Plays           int      `json:"plays"`
	URL             string   `json:"url,omitempty"`
	Screenshots     []string `json:"screenshots,omitempty"`
}

func (DemoGame) Shape() Shape     { return ShapeDemo }
func (g DemoGame) GameID() string { return g.ID }
func (DemoGame) sealed()          {}

// LivePayload is the envelope of the Gamezop games API
type LivePayload struct {
	Games []LiveGame `json:"games"`
}

// Validate rejects payloads without a games array or with unnamed records
func (p *LivePayload) Validate() error {
	if p.Games == nil {
		return fmt.Errorf("%w: missing games array", ErrUnexpectedShape)
	}
	for i, g := range p.Games {
		if g.Code == "" {
			return fmt.Errorf("%w: game %d has no code", ErrUnexpectedShape, i)
		}
	}
	return nil
}

// DemoPayload is the envelope of GET /games on the backend
type DemoPayload struct {
	Games []DemoGame `json:"games"`
}

// Validate rejects payloads without a games array or with records lacking an id
func (p *DemoPayload) Validate() error {
	if p.Games == nil {
		return fmt.Errorf("%w: missing games array", ErrUnexpectedShape)
	}
	for i, g := range p.Games {
		if g.ID == "" {
			return fmt.Errorf("%w: game %d has no id", ErrUnexpectedShape, i)
		}
	}
	return nil
}

// DemoGamePayload is the envelope of GET /games/{id} on the backend
type DemoGamePayload struct {
	Game *DemoGame `json:"game"`
}

// Validate requires a game with an id
func (p *DemoGamePayload) Validate() error {
	if p.Game == nil || p.Game.ID == "" {
		return fmt.Errorf("%w: missing game", ErrUnexpectedShape)
	}
	return nil
}

// unmarshal reports a well-formed body of the wrong types as ErrUnexpectedShape
func unmarshal(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return err
}

// DecodeLive decodes a Gamezop games payload
func DecodeLive(body []byte) ([]LiveGame, error) {
	var p LivePayload
	if err := unmarshal(body, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Games, nil
}

// DecodeDemo decodes a backend games payload
func DecodeDemo(body []byte) ([]DemoGame, error) {
	var p DemoPayload
	if err := unmarshal(body, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.Games, nil
}
