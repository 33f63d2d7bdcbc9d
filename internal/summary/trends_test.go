package summary

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

func at(year int, month time.Month, amount, category string) model.Transaction {
	return model.Transaction{
		ID:       amount + category,
		Date:     time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Account:  "A",
	}
}

func TestTrend_Months(t *testing.T) {
	txs := []model.Transaction{
		at(2025, time.July, "1000", model.CategoryIncome),
		at(2025, time.July, "-100", model.CategoryGroceries),
		at(2025, time.September, "1000", model.CategoryIncome),
		at(2025, time.September, "-300", model.CategoryGroceries),
		at(2025, time.September, "-50", model.CategoryTransfers),
		at(2025, time.May, "-999", model.CategoryGroceries),
		at(2025, time.October, "-999", model.CategoryGroceries),
	}

	tr := Trend(sept, 3, 5, txs)
	assert.Equal(t, "2025-07", tr.From)
	assert.Equal(t, "2025-09", tr.To)
	require.Len(t, tr.Months, 3)

	assert.Equal(t, "2025-07", tr.Months[0].Month)
	assert.Equal(t, "900", tr.Months[0].Net.String())
	assert.Equal(t, "2025-08", tr.Months[1].Month)
	assert.True(t, tr.Months[1].Spending.IsZero())
	assert.Equal(t, "300", tr.Months[2].Spending.String())
	assert.Equal(t, "700", tr.Months[2].Net.String())

	require.Len(t, tr.TopCategories, 1)
	g := tr.TopCategories[0]
	assert.Equal(t, model.CategoryGroceries, g.Category)
	assert.Equal(t, "400", g.Total.String())
	require.Len(t, g.Points, 3)
	assert.True(t, g.Points[1].Amount.IsZero())
}

func TestTrend_TopN(t *testing.T) {
	txs := []model.Transaction{
		at(2025, time.September, "-10", "A"),
		at(2025, time.September, "-30", "B"),
		at(2025, time.September, "-20", "C"),
		at(2025, time.September, "-20", "D"),
	}
	tr := Trend(sept, 2, 3, txs)
	var names []string
	for _, c := range tr.TopCategories {
		names = append(names, c.Category)
	}
	assert.Equal(t, []string{"B", "C", "D"}, names)
}

func TestTrend_SingleMonthHasNoMetrics(t *testing.T) {
	tr := Trend(sept, 1, 5, nil)
	assert.Len(t, tr.Months, 1)
	assert.Nil(t, tr.Metrics)
	assert.NotNil(t, tr.TopCategories)
}

func TestTrend_YearBoundary(t *testing.T) {
	jan := id.Month{Year: 2026, Month: time.January}
	tr := Trend(jan, 3, 5, nil)
	assert.Equal(t, "2025-11", tr.From)
	assert.Equal(t, "2025-12", tr.Months[1].Month)
}

func TestMeasure(t *testing.T) {
	m := Measure([]float64{100, 200, 300})
	require.NotNil(t, m.ChangePct)
	assert.InDelta(t, 200, *m.ChangePct, 1e-9)
	assert.InDelta(t, 200, m.Average, 1e-9)
	require.NotNil(t, m.Volatility)
	// population std 81.6497 over mean 200
	assert.InDelta(t, 40.8248, *m.Volatility, 1e-3)
}

func TestMeasure_Degenerate(t *testing.T) {
	m := Measure([]float64{0, 50})
	assert.Nil(t, m.ChangePct)
	assert.NotNil(t, m.Volatility)

	flat := Measure([]float64{10, 10, 10})
	assert.Nil(t, flat.Volatility)
	require.NotNil(t, flat.ChangePct)
	assert.InDelta(t, 0, *flat.ChangePct, 1e-9)

	assert.Equal(t, SeriesMetrics{}, Measure(nil))
}
