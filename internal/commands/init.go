package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankmerge-dev/bankmerge/internal/config"
	"github.com/bankmerge-dev/bankmerge/internal/store"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bankmerge workspace",
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

			return runInit(cmd, absDir)
		},
	}

	return cmd
}

func runInit(cmd *cobra.Command, dir string) error {
	configPath := filepath.Join(dir, "bankmerge.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", configPath)
	}

	cfg := config.Default()
	if err := os.MkdirAll(filepath.Join(dir, cfg.Logs.Dir), 0o755); err != nil {
		return fmt.Errorf("creating logs directory: %w", err)
	}

	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database and bring the schema up to date.
	s, err := store.Open(filepath.Join(dir, cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized bankmerge workspace at %s\n", dir)
	return nil
}
