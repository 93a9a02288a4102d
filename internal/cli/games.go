package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/games"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse and play games",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesShowCmd())
	cmd.AddCommand(newGamesPlayCmd())
	cmd.AddCommand(newGamesRateCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	var category string
	var limit int
	var live bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games, falling back to the demo catalog when offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if live {
				lang, err := language(cmd)
				if err != nil {
					return err
				}
				output(cmd).Print(app.GamesService.ListLiveGames(cmd.Context(), lang))
				return nil
			}

			filter := games.Filter{Category: model.Category(category), Limit: limit}
			output(cmd).Print(app.GamesService.ListGames(cmd.Context(), filter))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only games in this category")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games (0 for all)")
	cmd.Flags().BoolVar(&live, "live", false, "Use the partner catalog instead of the backend")

	return cmd
}

// language picks --lang, then the saved language setting
func language(cmd *cobra.Command) (string, error) {
	if cfg.Lang != "" {
		return cfg.Lang, nil
	}
	settings, err := app.SettingsService.Get(cmd.Context())
	if err != nil {
		return "", err
	}
	return settings.Language, nil
}

func newGamesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show GAME_ID",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := app.GamesService.GetGame(cmd.Context(), model.GameID(args[0]))
			if err != nil {
				return err
			}
			output(cmd).Print(game)
			return nil
		},
	}
}

func newGamesPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play GAME_ID",
		Short: "Launch a game and record the play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, unlocked, err := app.GamesService.Play(cmd.Context(), model.GameID(args[0]))
			if err != nil {
				return err
			}
			output(cmd).Print(PlayResult{Game: game, Unlocked: unlocked})
			return nil
		},
	}
}

func newGamesRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate GAME_ID RATING",
		Short: "Rate a game from 1 to 5",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}

			summary, err := app.GamesService.RateGame(cmd.Context(), model.GameID(args[0]), rating)
			if err != nil {
				return err
			}
			output(cmd).Print(summary)
			return nil
		},
	}
}
