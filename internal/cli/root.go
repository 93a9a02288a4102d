package cli

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mcoot/gamehub/internal/factory"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	app = nil

	rootCmd := &cobra.Command{
		Use:   "gamehub",
		Short: "Command-line client for the Game Hub",
		Long: `gamehub is a command-line client for the Game Hub backend.

It talks to the auth and games APIs through a prioritized list of endpoints,
keeps the login session on disk, and falls back to a built-in demo catalog
and sample comments whenever no backend can be reached.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger(cmd.ErrOrStderr())

			factoryCfg, err := cfg.FactoryConfig(logger)
			if err != nil {
				return err
			}

			app, err = factory.New(factoryCfg)
			if err != nil {
				return err
			}

			_, err = app.AuthService.Restore(cmd.Context())
			return err
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.Env, "env", cfg.Env, "Endpoint table: development, production (env: GAMEHUB_ENV)")
	rootCmd.PersistentFlags().StringVar(&cfg.Store, "store", cfg.Store, "Session store: memory, sqlite, redis (env: GAMEHUB_STORE)")
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (env: GAMEHUB_DB)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for --store=redis (env: GAMEHUB_REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.Partner, "partner", cfg.Partner, "Gamezop partner id (env: GAMEHUB_PARTNER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Lang, "lang", cfg.Lang, "Live catalog language, defaults to the language setting (env: GAMEHUB_LANG)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Endpoint config file, defaults to ./gamehub.yaml (env: GAMEHUB_CONFIG)")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newPasswordCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newAchievementsCmd())

	return rootCmd
}

// Run executes the CLI with the given arguments and releases the
// application afterwards
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	defer func() {
		if app != nil {
			_ = app.Close()
			app = nil
		}
	}()

	return rootCmd.ExecuteContext(ctx)
}

// Execute runs the root command
func Execute(ctx context.Context) {
	// A missing .env file is fine
	_ = godotenv.Load()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
