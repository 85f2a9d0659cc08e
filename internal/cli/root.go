// Package cli provides the command-line interface for lattice.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "lattice",
		Short: "lattice - in-memory users, posts and comments",
		Long: `lattice keeps users, posts and comments in memory, resolves the
relationships between them on demand, and serves them over a JSON API.

Deleting a user cascades to every post the user wrote and every comment
on those posts or by that user.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lattice.yaml)")

	rootCmd.AddCommand(newServeCommand(&cfgFile))
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// addServeFlags registers flags that override config keys.
// Flag names map to keys by replacing '-' with '_'.
func addServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("addr", config.DefaultAddr, "listen address")
	flags.String("seed-file", "", "YAML seed file (default: built-in demo data)")
	flags.Bool("seed-enabled", true, "import seed data at startup")
	flags.Int("max-depth", config.DefaultMaxDepth, "maximum relationship expansion depth")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text|json)")
	flags.Bool("audit", false, "audit cascading deletes through the change feed")
	flags.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "graceful shutdown timeout")

	_ = cmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}
