// Package commands wires the CLI surface together.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankmerge-dev/bankmerge/internal/buildinfo"
	"github.com/bankmerge-dev/bankmerge/internal/config"
)

const configEnvVar = "BANKMERGE_CONFIG"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankmerge",
		Short:   "Merge bank statement exports into per-account ledgers",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAccountsCommand())

	return rootCmd
}

// resolveConfigPath picks the config file location: the --config flag
// wins, then the BANKMERGE_CONFIG environment variable, then
// bankmerge.yaml in the working directory.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(configEnvVar); env != "" {
		return env
	}
	return "bankmerge.yaml"
}

// loadConfig reads the resolved config file, falling back to defaults
// when no file exists at the implicit location. An explicitly named
// file must exist.
func loadConfig(flagValue string) (*config.Config, error) {
	path := resolveConfigPath(flagValue)
	cfg, err := config.Load(path)
	if err != nil {
		if flagValue == "" && os.IsNotExist(err) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}
