package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/summary"
)

func newSummaryCommand(a *app) *cobra.Command {
	var asJSON, showTransactions bool

	cmd := &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Show income, spending and categories for a month",
		Long:  "Show the monthly summary. The month defaults to the current one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := id.MonthOf(time.Now()).String()
			if len(args) > 0 {
				month = args[0]
			}

			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			s, err := svc.MonthlySummary(cmd.Context(), month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, s)
			}
			printSummary(out, s, showTransactions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVarP(&showTransactions, "transactions", "t", false, "list the month's transactions")

	return cmd
}

func printSummary(w io.Writer, s summary.Summary, showTransactions bool) {
	fmt.Fprintf(w, "%s\n\n", heading.Sprintf("Summary for %s", s.Month))
	fmt.Fprintf(w, "  %-10s %14s\n", "Income", positive.Sprint(money(s.Income)))
	fmt.Fprintf(w, "  %-10s %14s\n", "Spending", negative.Sprint(money(s.Spending)))
	fmt.Fprintf(w, "  %-10s %14s\n", "Net", signed(s.Net))

	if len(s.Categories) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading.Sprint("Spending by category"))
		for _, c := range s.Categories {
			fmt.Fprintf(w, "  %-22s %12s %7s  %s\n", c.Name, money(c.Amount), percent(c.Percent), bar(c.Percent, 20))
		}
	}

	if len(s.Accounts) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading.Sprint("Accounts"))
		for _, acct := range s.Accounts {
			fmt.Fprintf(w, "  %-28s in %12s  out %12s  net %12s  (%d)\n",
				acct.Name, money(acct.Income), money(acct.Spending), money(acct.Net), acct.Count)
		}
	}

	t := s.Transparency
	fmt.Fprintf(w, "\n%s\n", muted.Sprintf("Not counted: %d transfers (%s), %d excluded (%s), %d other inflows (%s)",
		t.TransferCount, money(t.TransferTotal), t.ExcludedCount, money(t.ExcludedTotal),
		t.OtherInflowCount, money(t.OtherInflowTotal)))

	if showTransactions && len(s.Transactions) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading.Sprint("Transactions"))
		for _, tx := range s.Transactions {
			flag := " "
			if tx.Exclude {
				flag = "x"
			}
			fmt.Fprintf(w, "  %s %s %s %12s  %-22s %s %s\n",
				muted.Sprint(tx.ID), tx.Date.Format("2006-01-02"), flag,
				signed(tx.Amount), tx.Category, tx.Description, muted.Sprint(tx.Account))
		}
	}
}
