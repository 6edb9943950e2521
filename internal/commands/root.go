package commands

import (
	"github.com/spf13/cobra"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/buildinfo"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "ekstre",
		Short:   "Bank statement ETL: extract, reconcile and store account activity",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to ekstre.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newReconcileCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))

	return rootCmd
}
