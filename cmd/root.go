package cmd

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "AI study companion for the terminal",
	Long:  "Study Buddy: chat with an AI tutor, take quizzes, review flashcards and follow study plans from your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides STUDYBUDDY_DB env var)")
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studybuddy/config.toml)")
	flags.String("api-url", "", "Study API base URL (overrides STUDYBUDDY_API_URL)")
	flags.String("backend", "", "Backend to use: remote or local")

	rootCmd.Flags().String("route", "", "Open a view directly, e.g. /quiz")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.Client.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Client.Backend = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path using --db flag or the config
// db setting (highest priority), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the local database.
func openStore(cmd *cobra.Command) (config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, st, nil
}
