package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bankmerge-dev/bankmerge/internal/auditlog"
	"github.com/bankmerge-dev/bankmerge/internal/config"
	"github.com/bankmerge-dev/bankmerge/internal/id"
	"github.com/bankmerge-dev/bankmerge/internal/importer"
	"github.com/bankmerge-dev/bankmerge/internal/parser"
	"github.com/bankmerge-dev/bankmerge/internal/store"
)

func newImportCommand() *cobra.Command {
	var account string
	var format string
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement CSV into an account ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runImport(cmd, cfg, account, format, args[0])
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account name (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&format, "format", "", "statement format: chequing, creditcard, or purchases")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, account, format, file string) error {
	if format == "" {
		format = cfg.FormatFor(account)
	}
	if format == "" {
		return fmt.Errorf("no --format given and account %q has no configured format", account)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	accountID, err := s.EnsureAccount(account)
	if err != nil {
		return err
	}

	imp := importer.New(parser.DefaultRegistry())
	res, importErr := imp.Import(accountID, s.Ledger(accountID), format, data)
	if res != nil {
		printResult(cmd, res)
		if logErr := appendRunLog(cfg.Logs.Dir, account, format, file, res); logErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not write import log: %v\n", logErr)
		}
	}
	return importErr
}

func printResult(cmd *cobra.Command, res *importer.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d transaction(s), skipped %d duplicate(s), %d error(s)\n",
		res.ImportedCount, res.SkippedCount, res.ErrorCount)

	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w.Message)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
}

func appendRunLog(logsDir, account, format, file string, res *importer.ImportResult) error {
	existing, err := auditlog.Read(logsDir)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.RunID)
	}

	now := time.Now().UTC()
	return auditlog.Append(logsDir, []auditlog.Entry{{
		Timestamp: now,
		RunID:     id.NextRunID(now, ids),
		Account:   account,
		Format:    format,
		File:      file,
		Imported:  res.ImportedCount,
		Skipped:   res.SkippedCount,
		Errors:    res.ErrorCount,
	}})
}
