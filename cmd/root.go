package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/devtutor/internal/config"
	"github.com/abhisek/devtutor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "devtutor",
	Short: "Terminal tutor for web development",
	Long: "devtutor is a terminal app for learning web development: topic quizzes " +
		"generated by AI (with offline questions when no key is set) and a tutor chat " +
		"that follows a guided learning path.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DEVTUTOR_DB env var)")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then DEVTUTOR_DB (via cfg or the environment), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.App) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
