// Package cmd contains the carekb command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hearthside/carekb/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "carekb",
	Short: "Caregiver knowledge-base assistant",
	Long: `carekb answers caregiving questions from a managed Bedrock knowledge
base, keeps short-lived conversation context with remembered notes, and
manages the source documents behind the knowledge base.

Run 'carekb serve' for the HTTP API or 'carekb chat' for a terminal session.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	// A local .env mirrors the original deployment; absence is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// newLogger builds the process logger. DEBUG enables debug level and
// CAREKB_LOG_JSON switches to JSON output.
func newLogger() log.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	if os.Getenv("CAREKB_LOG_JSON") != "" {
		cfg.JSON = true
	}
	return log.New(cfg)
}
