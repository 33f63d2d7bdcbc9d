// Package summary aggregates transactions into monthly summaries and trends.
// Every function is pure: the same input always yields the same output.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is one row of the spending breakdown.
type CategoryTotal struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
	Count   int             `json:"count"`
}

// AccountTotal is the budget activity of one account.
type AccountTotal struct {
	Name     string          `json:"name"`
	Income   decimal.Decimal `json:"income"`
	Spending decimal.Decimal `json:"spending"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// Transparency totals what was left out of income and spending.
type Transparency struct {
	TransferTotal decimal.Decimal `json:"transfer_total"`
	TransferCount int             `json:"transfer_count"`
	ExcludedTotal decimal.Decimal `json:"excluded_total"`
	ExcludedCount int             `json:"excluded_count"`

	// OtherInflow counts inflows outside the Income category.
	OtherInflowTotal decimal.Decimal `json:"other_inflow_total"`
	OtherInflowCount int             `json:"other_inflow_count"`
}

// Summary is the monthly result handed to consumers.
type Summary struct {
	Month        string              `json:"month"`
	Income       decimal.Decimal     `json:"income"`
	Spending     decimal.Decimal     `json:"spending"`
	Net          decimal.Decimal     `json:"net"`
	Categories   []CategoryTotal     `json:"categories"`
	Accounts     []AccountTotal      `json:"accounts"`
	Transparency Transparency        `json:"transparency"`
	Transactions []model.Transaction `json:"transactions"`
}

// Monthly summarizes the transactions of txs that fall in month. Records
// outside the month are ignored.
func Monthly(month id.Month, txs []model.Transaction) Summary {
	s := Summary{
		Month:        month.String(),
		Categories:   []CategoryTotal{},
		Accounts:     []AccountTotal{},
		Transactions: []model.Transaction{},
	}

	byCategory := map[string]*CategoryTotal{}
	byAccount := map[string]*AccountTotal{}

	for _, tx := range txs {
		if !tx.InMonth(month.Year, month.Month) {
			continue
		}
		s.Transactions = append(s.Transactions, tx)

		acct := byAccount[tx.Account]
		if acct == nil {
			acct = &AccountTotal{Name: tx.Account}
			byAccount[tx.Account] = acct
		}
		acct.Count++

		switch tx.Classify() {
		case model.ClassSpending:
			amount := tx.Amount.Abs()
			s.Spending = s.Spending.Add(amount)
			acct.Spending = acct.Spending.Add(amount)

			name := tx.Category
			if name == "" {
				name = model.CategoryUncategorized
			}
			c := byCategory[name]
			if c == nil {
				c = &CategoryTotal{Name: name}
				byCategory[name] = c
			}
			c.Amount = c.Amount.Add(amount)
			c.Count++
		case model.ClassIncome:
			s.Income = s.Income.Add(tx.Amount)
			acct.Income = acct.Income.Add(tx.Amount)
		case model.ClassTransfer:
			s.Transparency.TransferTotal = s.Transparency.TransferTotal.Add(tx.Amount.Abs())
			s.Transparency.TransferCount++
		case model.ClassExcluded:
			s.Transparency.ExcludedTotal = s.Transparency.ExcludedTotal.Add(tx.Amount.Abs())
			s.Transparency.ExcludedCount++
		case model.ClassOther:
			s.Transparency.OtherInflowTotal = s.Transparency.OtherInflowTotal.Add(tx.Amount)
			s.Transparency.OtherInflowCount++
		}
	}
	s.Net = s.Income.Sub(s.Spending)

	for _, c := range byCategory {
		if !c.Amount.IsPositive() {
			continue
		}
		c.Percent = c.Amount.Div(s.Spending).Mul(hundred).Round(2)
		s.Categories = append(s.Categories, *c)
	}
	sortCategories(s.Categories)

	for _, a := range byAccount {
		a.Net = a.Income.Sub(a.Spending)
		s.Accounts = append(s.Accounts, *a)
	}
	sort.Slice(s.Accounts, func(i, j int) bool { return s.Accounts[i].Name < s.Accounts[j].Name })

	model.SortTransactions(s.Transactions)
	return s
}

// sortCategories orders by amount descending, ties broken by name.
func sortCategories(cs []CategoryTotal) {
	sort.Slice(cs, func(i, j int) bool {
		if c := cs[i].Amount.Cmp(cs[j].Amount); c != 0 {
			return c > 0
		}
		return cs[i].Name < cs[j].Name
	})
}
