package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/config"
	"github.com/abhisek/studymate/internal/curriculum"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "AI study companion for the terminal",
	Long:  "StudyMate explains a curriculum topic, quizzes you on it and grades your answers with an LLM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYMATE_DB env var)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write debug-level logs")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file to load")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		cfg.DBPath = p
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// openLogger creates the file logger, falling back to a no-op logger so a
// read-only state dir never blocks the app.
func openLogger(cfg *config.Config) *logger.Logger {
	log, err := logger.New(logger.Options{Path: cfg.LogPath, Debug: cfg.Debug})
	if err != nil {
		return logger.Nop()
	}
	return log
}

// openStore loads config and opens the database.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

func loadCatalog(cfg *config.Config) (*curriculum.Catalog, error) {
	if cfg.CatalogPath != "" {
		return curriculum.LoadFile(cfg.CatalogPath)
	}
	return curriculum.Default(), nil
}
