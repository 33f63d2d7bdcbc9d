package summary

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

var sept = id.Month{Year: 2025, Month: time.September}

func tx(id string, day int, amount, category, account string) model.Transaction {
	return model.Transaction{
		ID:       id,
		Date:     time.Date(2025, 9, day, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Account:  account,
	}
}

func septemberFixture() []model.Transaction {
	excluded := tx("x1", 12, "-30.00", model.CategoryShopping, "Chase Checking")
	excluded.Exclude = true
	outside := tx("o1", 1, "-999.00", model.CategoryShopping, "Chase Checking")
	outside.Date = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	return []model.Transaction{
		tx("p1", 1, "2500.00", model.CategoryIncome, "Chase Checking"),
		tx("s1", 22, "-7.45", model.CategoryFoodDrink, "Chase Freedom (...2568)"),
		tx("s2", 20, "-63.18", model.CategoryGroceries, "Chase Freedom (...2568)"),
		tx("s3", 2, "-84.12", model.CategoryGroceries, "Chase Checking"),
		tx("s4", 11, "-88.20", model.CategoryBills, "Chase Freedom (...2568)"),
		tx("t1", 5, "-500.00", model.CategoryTransfers, "Chase Checking"),
		tx("t2", 8, "-1200.00", model.CategoryCardPayment, "Chase Checking"),
		tx("t3", 15, "1200.00", model.CategoryCardPayment, "Chase Freedom (...2568)"),
		tx("r1", 12, "24.99", model.CategoryIncome, "Chase Freedom (...2568)"),
		tx("i1", 9, "40.00", model.CategoryShopping, "Chase Checking"),
		excluded,
		outside,
	}
}

func TestMonthly_Totals(t *testing.T) {
	s := Monthly(sept, septemberFixture())

	assert.Equal(t, "2025-09", s.Month)
	assert.Equal(t, "2524.99", s.Income.StringFixed(2))
	assert.Equal(t, "242.95", s.Spending.StringFixed(2))
	assert.Equal(t, "2282.04", s.Net.StringFixed(2))
	assert.True(t, s.Income.Sub(s.Spending).Equal(s.Net))
	assert.Len(t, s.Transactions, 11)
}

func TestMonthly_CategoryBreakdown(t *testing.T) {
	s := Monthly(sept, septemberFixture())

	require.Len(t, s.Categories, 3)
	assert.Equal(t, model.CategoryGroceries, s.Categories[0].Name)
	assert.Equal(t, "147.30", s.Categories[0].Amount.StringFixed(2))
	assert.Equal(t, 2, s.Categories[0].Count)
	assert.Equal(t, model.CategoryBills, s.Categories[1].Name)
	assert.Equal(t, model.CategoryFoodDrink, s.Categories[2].Name)

	sum := decimal.Zero
	pct := decimal.Zero
	for _, c := range s.Categories {
		sum = sum.Add(c.Amount)
		pct = pct.Add(c.Percent)
		assert.True(t, c.Amount.IsPositive())
	}
	assert.True(t, sum.Equal(s.Spending))
	assert.True(t, pct.Sub(decimal.NewFromInt(100)).Abs().LessThanOrEqual(decimal.RequireFromString("0.05")), "percent sum %s", pct)
}

func TestMonthly_TieBrokenByName(t *testing.T) {
	s := Monthly(sept, []model.Transaction{
		tx("a", 1, "-10.00", "Zoo", "A"),
		tx("b", 1, "-10.00", "Aquarium", "A"),
	})
	require.Len(t, s.Categories, 2)
	assert.Equal(t, "Aquarium", s.Categories[0].Name)
	assert.Equal(t, "50", s.Categories[0].Percent.String())
}

func TestMonthly_Transparency(t *testing.T) {
	s := Monthly(sept, septemberFixture())

	assert.Equal(t, 3, s.Transparency.TransferCount)
	assert.Equal(t, "2900.00", s.Transparency.TransferTotal.StringFixed(2))
	assert.Equal(t, 1, s.Transparency.ExcludedCount)
	assert.Equal(t, "30.00", s.Transparency.ExcludedTotal.StringFixed(2))
	assert.Equal(t, 1, s.Transparency.OtherInflowCount)
	assert.Equal(t, "40.00", s.Transparency.OtherInflowTotal.StringFixed(2))
}

func TestMonthly_AccountBreakdown(t *testing.T) {
	s := Monthly(sept, septemberFixture())

	require.Len(t, s.Accounts, 2)
	checking, card := s.Accounts[0], s.Accounts[1]
	assert.Equal(t, "Chase Checking", checking.Name)
	assert.Equal(t, "2500.00", checking.Income.StringFixed(2))
	assert.Equal(t, "84.12", checking.Spending.StringFixed(2))
	assert.Equal(t, "2415.88", checking.Net.StringFixed(2))
	assert.Equal(t, 6, checking.Count)

	assert.Equal(t, "Chase Freedom (...2568)", card.Name)
	assert.Equal(t, "24.99", card.Income.StringFixed(2))
	assert.Equal(t, "158.83", card.Spending.StringFixed(2))
	assert.Equal(t, 5, card.Count)
}

func TestMonthly_OnlineTransferNeverCounts(t *testing.T) {
	s := Monthly(sept, []model.Transaction{
		tx("t1", 5, "-500.00", model.CategoryTransfers, "Chase Checking"),
		tx("t2", 6, "500.00", model.CategoryTransfers, "Chase Savings"),
	})
	assert.True(t, s.Income.IsZero())
	assert.True(t, s.Spending.IsZero())
	assert.Empty(t, s.Categories)
}

func TestMonthly_Deterministic(t *testing.T) {
	txs := septemberFixture()
	first, err := json.Marshal(Monthly(sept, txs))
	require.NoError(t, err)

	reversed := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}
	second, err := json.Marshal(Monthly(sept, reversed))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMonthly_Empty(t *testing.T) {
	s := Monthly(sept, nil)
	assert.True(t, s.Net.IsZero())
	assert.NotNil(t, s.Categories)
	assert.NotNil(t, s.Transactions)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"categories":[]`)
}

func TestMonthly_TransactionOrder(t *testing.T) {
	s := Monthly(sept, septemberFixture())
	require.NotEmpty(t, s.Transactions)
	assert.Equal(t, "s1", s.Transactions[0].ID)
	assert.Equal(t, "p1", s.Transactions[len(s.Transactions)-1].ID)
}
