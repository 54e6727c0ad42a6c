package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/deusflow/mediamon/internal/app"
	"github.com/deusflow/mediamon/internal/config"
	"github.com/deusflow/mediamon/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mediamon",
	Short: "Media monitoring: search, rank and summarize news coverage",
	Long: `mediamon searches news providers for a set of keywords, extracts the
article texts, and ranks the results by recency and source authority.

Provider keys are read from the environment (or a .env file):
  NEWS_API_KEY      NewsAPI general search (falls back to Google News RSS)
  GUARDIAN_API_KEY  The Guardian archive with full article bodies`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

// bootstrap loads configuration and builds the application.
func bootstrap(ctx context.Context) (*app.App, *config.Config, *slog.Logger, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}
	log := logger.Init(cfg.LogLevel)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, cfg, log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
