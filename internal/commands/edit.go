package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/store"
)

func newEditCommand(a *app) *cobra.Command {
	var category, notes string
	var exclude, include bool

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Set a transaction's category, budget exclusion or notes",
		Long: "Apply a manual edit. A manually set category is never changed by later\n" +
			"imports or reclassification.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e store.Edit
			flags := cmd.Flags()
			if flags.Changed("category") {
				e.Category = &category
			}
			if flags.Changed("notes") {
				e.Notes = &notes
			}
			switch {
			case exclude && include:
				return errors.New("--exclude and --include are mutually exclusive")
			case exclude:
				v := true
				e.Exclude = &v
			case include:
				v := false
				e.Exclude = &v
			}
			if e.Empty() {
				return errors.New("nothing to edit: use --category, --notes, --exclude or --include")
			}

			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			tx, err := svc.EditTransaction(cmd.Context(), args[0], e)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s %s: %s (%s), excluded=%t\n",
				tx.ID, tx.Date.Format("2006-01-02"), tx.Description, tx.Category, tx.CategorySource, tx.Exclude)
			if tx.Notes != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  notes: %s\n", tx.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category name (marks the category manual)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&exclude, "exclude", false, "exclude from budget totals")
	cmd.Flags().BoolVar(&include, "include", false, "include in budget totals again")

	return cmd
}

func newReclassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify",
		Short: "Re-run categorization rules over automatically categorized transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.Reclassify(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reclassified %d transactions\n", n)
			return nil
		},
	}
}
