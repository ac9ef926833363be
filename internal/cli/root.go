package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanmeadows/psytest/internal/config"
	"github.com/alanmeadows/psytest/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	appConfig  *config.Config

	rootCmd = &cobra.Command{
		Use:   "psytest",
		Short: "Create psychology tests by describing them in plain language",
		Long: `psytest talks to the test-creation service. Describe what you want to
find out, answer any follow-up questions, confirm the detected test type,
and the service builds (or reuses) a matching test.

The backend session is pinned between runs, so 'psytest create' can be
called once per turn; 'psytest chat' runs the whole conversation
interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .psytest/psytest.jsonc)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.Setup(cmd.ErrOrStderr(), verbose)

		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file loaded", "error", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
		return nil
	}

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(alternativesCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
