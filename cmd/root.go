package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/netquiz/internal/config"
	"github.com/abhisek/netquiz/internal/logger"
	"github.com/abhisek/netquiz/internal/store"
)

var (
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "netquiz",
	Short: "Adaptive networking certification practice",
	Long: "netquiz tracks per-question mastery and serves practice sessions in seven modes,\n" +
		"with daily streaks and a monthly free-tier question allowance.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default $XDG_CONFIG_HOME/netquiz/config.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides NETQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "User whose study state to use")
	rootCmd.PersistentFlags().String("questions", "", "Path to the JSON question bank")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tierCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger. Flags override config.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		loaded.User = u
	}
	if q, _ := cmd.Flags().GetString("questions"); q != "" {
		loaded.QuestionsPath = q
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		loaded.DBPath = p
	}
	cfg = loaded

	l, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	log = l
	return nil
}

// resolveDBPath returns the database path using --db flag or config (highest
// priority), then NETQUIZ_DB env var, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
