package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(a *app) *cobra.Command {
	var add []string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			for _, name := range add {
				if err := svc.AddCategory(cmd.Context(), name); err != nil {
					return err
				}
			}

			names, err := svc.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&add, "add", nil, "register a category before listing (repeatable)")
	return cmd
}

func newAccountsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts seen during import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			accts, err := svc.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			for _, acct := range accts {
				line := acct.Name + "  " + muted.Sprint(string(acct.Type))
				if acct.Institution != "" {
					line += muted.Sprint(" " + acct.Institution)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
