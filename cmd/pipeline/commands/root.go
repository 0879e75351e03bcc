package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kaispeidel/reddit-pipeline/internal/storage"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	storageKind string
	dataDir     string
	logLevel    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Reddit ETL pipeline - scrape, clean, and store posts and comments",
	Long: `Reddit ETL pipeline. Fetches posts and comments from reddit, applies
rule-based text cleaning and filtering, and persists them to an
interchangeable storage backend (sqlite, json, or csv).

Credentials and collector mode come from the environment (COLLECTOR_MODE,
REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USER_AGENT, ...), loaded
from a .env file when present.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()
		setupLogging(logLevel)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "sqlite", "Storage backend kind (sqlite, json, csv)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Directory for stored data")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

// openBackend constructs the configured backend under dataDir. The sqlite
// kind gets a database file inside the directory; json and csv use the
// directory itself.
func openBackend() (storage.Backend, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	path := dataDir
	if storageKind == "sqlite" {
		path = filepath.Join(dataDir, "reddit.db")
	}
	return storage.New(storageKind, storage.Options{Path: path})
}
