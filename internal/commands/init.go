package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/config"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/importer"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/store"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new statement workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing ekstre.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()

	// Create directory structure.
	inbox := config.Resolve(dir, cfg.Import.Inbox)
	dirs := []string{
		inbox,
		filepath.Join(inbox, importer.ProcessedDir),
		filepath.Join(dir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Open runs the migrations.
	db, err := store.Open(cmd.Context(), config.Resolve(dir, cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ekstre workspace at %s (database %s)\n", dir, db.Path())
	return nil
}
