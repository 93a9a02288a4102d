package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/remote"
	"github.com/mcoot/gamehub/internal/services/games"
	"github.com/mcoot/gamehub/internal/services/gamification"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Session:
		o.printSession(v)
	case *model.UserRecord:
		o.printUser(*v)
	case []model.Game:
		o.printGames(v)
	case *model.Game:
		o.printGame(v)
	case PlayResult:
		o.printPlayResult(v)
	case []model.Comment:
		o.printComments(v)
	case *model.Comment:
		o.printComment(*v)
	case *games.RatingSummary:
		fmt.Fprintf(o.w, "Rating: %.1f (%d ratings)\n", v.Average, v.Count)
	case []remote.ProbeResult:
		o.printProbeResults(v)
	case *model.Settings:
		o.printSettings(v)
	case []gamification.Status:
		o.printAchievements(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// PlayResult is what `games play` reports
type PlayResult struct {
	Game     *model.Game         `json:"game"`
	Unlocked []model.Achievement `json:"unlocked,omitempty"`
}

func (o *Output) printSession(s *model.Session) {
	if s == nil {
		fmt.Fprintln(o.w, "Not logged in")
		return
	}
	o.printUser(s.User)
}

func (o *Output) printUser(u model.UserRecord) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	if u.Role == model.RoleAdmin {
		fmt.Fprintln(o.w, "Role: admin")
	}
	fmt.Fprintf(o.w, "Level: %d  Score: %d  Coins: %d\n", u.Level, u.Score, u.Coins)
	if u.SelectedAvatarID != "" {
		fmt.Fprintf(o.w, "Avatar: %s\n", u.SelectedAvatarID)
	}
}

func (o *Output) printGames(list []model.Game) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSESSION\tPLAYS")
	for _, g := range list {
		name := g.Name
		if g.Fallback {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.ID, name, g.Category, g.AverageSessionLabel, g.PlayCountLabel)
	}
	_ = tw.Flush()
	if len(list) > 0 && list[0].Fallback {
		fmt.Fprintln(o.w, "* offline demo catalog")
	}
}

func (o *Output) printGame(g *model.Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "Category: %s\n", g.Category)
	if g.Description != "" {
		fmt.Fprintf(o.w, "Description: %s\n", g.Description)
	}
	fmt.Fprintf(o.w, "Session: %s\n", g.AverageSessionLabel)
	fmt.Fprintf(o.w, "Plays: %s\n", g.PlayCountLabel)
	fmt.Fprintf(o.w, "Play: %s\n", g.PlayURL)
	if g.EmbedURL != "" && g.EmbedURL != g.PlayURL {
		fmt.Fprintf(o.w, "Embed: %s\n", g.EmbedURL)
	}
	if len(g.Screenshots) > 0 {
		fmt.Fprintf(o.w, "Screenshots: %d\n", len(g.Screenshots))
	}
}

func (o *Output) printPlayResult(r PlayResult) {
	fmt.Fprintf(o.w, "Launching %s: %s\n", r.Game.Name, r.Game.PlayURL)
	for _, a := range r.Unlocked {
		fmt.Fprintf(o.w, "Achievement unlocked: %s (+%d coins)\n", a.Title, a.Reward)
	}
}

func (o *Output) printComments(list []model.Comment) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No comments yet")
		return
	}
	for _, c := range list {
		o.printComment(c)
	}
}

func (o *Output) printComment(c model.Comment) {
	stars := strings.Repeat("★", c.Rating) + strings.Repeat("☆", model.MaxRating-c.Rating)
	var flags []string
	if c.Fallback {
		flags = append(flags, "sample")
	}
	if c.Local {
		flags = append(flags, "not sent")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ", ") + "]"
	}
	fmt.Fprintf(o.w, "%s  %s  %s (%s)%s\n", stars, c.Author, c.Timestamp, c.ID, suffix)
	fmt.Fprintf(o.w, "  %s\n", c.Text)
}

func (o *Output) printProbeResults(results []remote.ProbeResult) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PURPOSE\tENDPOINT\tURL\tSTATUS\tLATENCY")
	for _, r := range results {
		status := r.Status
		if r.StatusCode != 0 {
			status = fmt.Sprintf("%s (HTTP %d)", status, r.StatusCode)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Endpoint.Purpose, r.Endpoint.Name, r.Endpoint.BaseURL, status, r.Latency.Round(time.Millisecond))
	}
	_ = tw.Flush()
}

func (o *Output) printSettings(s *model.Settings) {
	fmt.Fprintf(o.w, "language: %s\n", s.Language)
	fmt.Fprintf(o.w, "dark_mode: %t\n", s.DarkMode)
	fmt.Fprintf(o.w, "notifications.push: %t\n", s.Notifications.Push)
	fmt.Fprintf(o.w, "notifications.new_games: %t\n", s.Notifications.NewGames)
	fmt.Fprintf(o.w, "notifications.comments: %t\n", s.Notifications.Comments)
	fmt.Fprintf(o.w, "data_usage: %s\n", s.DataUsage)
}

func (o *Output) printAchievements(list []gamification.Status) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACHIEVEMENT\tPROGRESS\tREWARD\tUNLOCKED")
	for _, s := range list {
		unlocked := "-"
		if s.Unlocked {
			unlocked = s.UnlockedAt
		}
		fmt.Fprintf(tw, "%s\t%d/%d\t%d\t%s\n", s.Title, s.Progress, s.Target, s.Reward, unlocked)
	}
	_ = tw.Flush()
}
