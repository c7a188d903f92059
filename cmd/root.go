package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bloomify/bloomify/internal/config"
	"github.com/bloomify/bloomify/internal/logger"
	"github.com/bloomify/bloomify/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "bloomify",
	Short: "Adaptive Bloom's taxonomy assessments",
	Long: "Bloomify asks questions that climb Bloom's taxonomy, from remembering facts " +
		"to creating new work, and reports how far a learner got.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BLOOMIFY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a bloomify.yaml config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what a command needs besides its flags.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func()
}

// loadEnv reads configuration and builds the logger.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	if cfg.File != "" {
		log.Debug("config loaded", zap.String("file", cfg.File))
	}
	return &env{cfg: cfg, log: log, closeLog: closeLog}, nil
}

func (e *env) Close() {
	e.closeLog()
}

// openStore opens the database chosen by resolveDBPath.
func (e *env) openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.log.Debug("database opened", zap.String("path", dbPath))
	return st, nil
}

// withStore loads config and opens the database for fn.
func withStore(cmd *cobra.Command, fn func(s *store.Store) error) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	s, err := e.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config, then BLOOMIFY_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
