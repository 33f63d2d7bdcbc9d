package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/summary"
)

func newTrendsCommand(a *app) *cobra.Command {
	var months, top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trends [YYYY-MM]",
		Short: "Show income and spending over the months ending at a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := id.MonthOf(time.Now()).String()
			if len(args) > 0 {
				end = args[0]
			}

			svc, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			tr, err := svc.Trends(cmd.Context(), end, months, top)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, tr)
			}
			printTrends(out, tr)
			return nil
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", 6, "number of months")
	cmd.Flags().IntVar(&top, "top", 5, "number of spending categories to follow")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the trends as JSON")

	return cmd
}

func printTrends(w io.Writer, tr summary.Trends) {
	fmt.Fprintf(w, "%s\n\n", heading.Sprintf("Trends %s to %s", tr.From, tr.To))
	fmt.Fprintf(w, "  %-8s %14s %14s %14s\n", "Month", "Income", "Spending", "Net")
	for _, m := range tr.Months {
		fmt.Fprintf(w, "  %-8s %14s %14s %14s\n", m.Month, money(m.Income), money(m.Spending), signed(m.Net))
	}

	if m := tr.Metrics; m != nil {
		fmt.Fprintf(w, "\n%s\n", heading.Sprint("Change first to last month"))
		fmt.Fprintf(w, "  %-10s %8s  avg %s\n", "Income", optionalPercent(m.Income.ChangePct), money(decimal.NewFromFloat(m.Income.Average)))
		fmt.Fprintf(w, "  %-10s %8s  avg %s\n", "Spending", optionalPercent(m.Spending.ChangePct), money(decimal.NewFromFloat(m.Spending.Average)))
		fmt.Fprintf(w, "  %-10s %8s  avg %s\n", "Net", optionalPercent(m.Net.ChangePct), money(decimal.NewFromFloat(m.Net.Average)))
	}

	if len(tr.TopCategories) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading.Sprint("Top spending categories"))
		for _, c := range tr.TopCategories {
			fmt.Fprintf(w, "  %-22s %12s ", c.Category, money(c.Total))
			for _, p := range c.Points {
				fmt.Fprintf(w, " %10s", money(p.Amount))
			}
			fmt.Fprintln(w)
		}
	}
}
