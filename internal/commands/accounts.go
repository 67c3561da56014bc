package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankmerge-dev/bankmerge/internal/money"
	"github.com/bankmerge-dev/bankmerge/internal/store"
)

func newAccountsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts and their current balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runAccounts(cmd, cfg.Database.Path)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path")

	return cmd
}

func runAccounts(cmd *cobra.Command, dbPath string) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.AccountNames()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no accounts")
		return nil
	}

	for _, name := range names {
		accountID, err := s.EnsureAccount(name)
		if err != nil {
			return err
		}
		balance, err := s.Ledger(accountID).CurrentBalance()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, money.FormatCents(balance))
	}
	return nil
}
