package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/services/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change app settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.SettingsService.Get(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(s)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Long:  "Change one setting. Keys: " + strings.Join(settings.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.SettingsService.Set(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			output(cmd).Print(s)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.SettingsService.Reset(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(s)
			return nil
		},
	})

	return cmd
}

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Show achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := app.GamificationService.List(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(statuses)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear all achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.GamificationService.Reset(cmd.Context()); err != nil {
				return err
			}
			output(cmd).PrintMessage("Đã đặt lại thành tích")
			return nil
		},
	})

	return cmd
}
