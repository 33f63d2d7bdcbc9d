package summary

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

// MonthPoint is one month of a trend.
type MonthPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Spending decimal.Decimal `json:"spending"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryPoint is one month of spending in a category.
type CategoryPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// CategorySeries is the monthly spending of one category over the window.
type CategorySeries struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Points   []CategoryPoint `json:"points"`
}

// SeriesMetrics describe the direction and volatility of a series.
type SeriesMetrics struct {
	// ChangePct is the change from the first to the last month, relative to
	// the first. Nil when the first month is zero.
	ChangePct *float64 `json:"change_pct,omitempty"`
	// Volatility is the coefficient of variation in percent. Nil when the
	// deviation or the mean is zero.
	Volatility *float64 `json:"volatility,omitempty"`
	Average    float64  `json:"average"`
}

// Metrics cover the income, spending and net series.
type Metrics struct {
	Income   SeriesMetrics `json:"income"`
	Spending SeriesMetrics `json:"spending"`
	Net      SeriesMetrics `json:"net"`
}

// Trends is the multi-month view ending at a month.
type Trends struct {
	From          string           `json:"from"`
	To            string           `json:"to"`
	Months        []MonthPoint     `json:"months"`
	TopCategories []CategorySeries `json:"top_categories"`
	// Metrics is nil for windows shorter than two months.
	Metrics *Metrics `json:"metrics,omitempty"`
}

// Trend summarizes the months months ending at end (inclusive), oldest
// first, with the topN spending categories over the window. Months without
// activity appear with zero totals.
func Trend(end id.Month, months, topN int, txs []model.Transaction) Trends {
	if months < 1 {
		months = 1
	}
	start := end.Add(-(months - 1))

	t := Trends{From: start.String(), To: end.String(), Months: make([]MonthPoint, months), TopCategories: []CategorySeries{}}
	index := make(map[string]int, months)
	for i := range t.Months {
		key := start.Add(i).String()
		t.Months[i].Month = key
		index[key] = i
	}

	perCategory := map[string][]decimal.Decimal{}
	totals := map[string]decimal.Decimal{}
	for _, tx := range txs {
		i, ok := index[id.MonthOf(tx.Date).String()]
		if !ok {
			continue
		}
		switch tx.Classify() {
		case model.ClassIncome:
			t.Months[i].Income = t.Months[i].Income.Add(tx.Amount)
		case model.ClassSpending:
			amount := tx.Amount.Abs()
			t.Months[i].Spending = t.Months[i].Spending.Add(amount)

			name := tx.Category
			if name == "" {
				name = model.CategoryUncategorized
			}
			if perCategory[name] == nil {
				perCategory[name] = make([]decimal.Decimal, months)
			}
			perCategory[name][i] = perCategory[name][i].Add(amount)
			totals[name] = totals[name].Add(amount)
		}
	}
	for i := range t.Months {
		t.Months[i].Net = t.Months[i].Income.Sub(t.Months[i].Spending)
	}

	for name, series := range perCategory {
		cs := CategorySeries{Category: name, Total: totals[name], Points: make([]CategoryPoint, months)}
		for i, v := range series {
			cs.Points[i] = CategoryPoint{Month: t.Months[i].Month, Amount: v}
		}
		t.TopCategories = append(t.TopCategories, cs)
	}
	sort.Slice(t.TopCategories, func(i, j int) bool {
		a, b := t.TopCategories[i], t.TopCategories[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	if topN >= 0 && len(t.TopCategories) > topN {
		t.TopCategories = t.TopCategories[:topN]
	}

	if months >= 2 {
		income := make([]float64, months)
		spending := make([]float64, months)
		net := make([]float64, months)
		for i, p := range t.Months {
			income[i] = p.Income.InexactFloat64()
			spending[i] = p.Spending.InexactFloat64()
			net[i] = p.Net.InexactFloat64()
		}
		t.Metrics = &Metrics{
			Income:   Measure(income),
			Spending: Measure(spending),
			Net:      Measure(net),
		}
	}
	return t
}

// Measure computes SeriesMetrics over values using the population standard
// deviation.
func Measure(values []float64) SeriesMetrics {
	var m SeriesMetrics
	if len(values) == 0 {
		return m
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	m.Average = mean

	if len(values) >= 2 && values[0] != 0 {
		pct := (values[len(values)-1] - values[0]) / math.Abs(values[0]) * 100
		m.ChangePct = &pct
	}

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)))
	if std != 0 && mean != 0 {
		cv := std / math.Abs(mean) * 100
		m.Volatility = &cv
	}
	return m
}
