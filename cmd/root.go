// Package cmd defines the hololive command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/holodule/internal/app"
	"github.com/JakeFAU/holodule/internal/config"
	"github.com/JakeFAU/holodule/internal/logging"
)

// Runner is the part of the application the command drives.
type Runner interface {
	Run(ctx context.Context) error
}

// newRunner is the application factory. It's a variable so we can
// replace it with a stub in our tests.
var newRunner = func(cfg config.Config, logger *zap.Logger) Runner {
	return app.New(cfg, logger)
}

// newLogger builds the process logger; tests swap it for an observer.
var newLogger = logging.New

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "hololive",
		Short: "Show the hololive broadcast schedule",
		Long: `hololive fetches the hololive schedule page and lists the scheduled
broadcasts. By default only streams that are live right now are shown; titles
are fetched on request and filled in as they arrive.`,
		Version:       "v0.0.1",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	cmd.Flags().BoolP("all", "a", false, "show all")
	cmd.Flags().BoolP("title", "t", false, "show titles")
	cobra.CheckErr(v.BindPFlag(config.KeyShowAll, cmd.Flags().Lookup("all")))
	cobra.CheckErr(v.BindPFlag(config.KeyEnrichTitles, cmd.Flags().Lookup("title")))

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	return newRunner(cfg, logger).Run(ctx)
}

// Execute is the main entry point. A failed run exits non-zero.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "hololive: %v\n", err)
		os.Exit(1)
	}
}
