package importer

import "fmt"

// CardParser parses credit-card exports with a single signed Amount column, e.g.
//
//	Transaction Date,Post Date,Description,Category,Type,Amount,Memo
type CardParser struct{}

var cardDateColumns = []string{"transaction date", "trans. date", "trans date"}

// Format returns the parser name.
func (p *CardParser) Format() string { return "card" }

// Detect accepts headers with an Amount column and a transaction date column.
func (p *CardParser) Detect(row []string) bool {
	h := newHeader(row)
	return h.exact("amount") >= 0 && h.exact(cardDateColumns...) >= 0
}

// Parse extracts rows from a card CSV. When the transaction date is blank the
// posting date is used instead.
func (p *CardParser) Parse(records [][]string) (*Result, error) {
	h := newHeader(records[0])

	colDate := h.exact(cardDateColumns...)
	colAmount := h.exact("amount")
	if colDate < 0 || colAmount < 0 {
		return nil, fmt.Errorf("%w: transaction date and amount", ErrMissingColumn)
	}
	colPostDate := h.exact("post date", "posted date", "posting date")
	colDesc := h.firstOf([]string{"description"}, "description", "merchant", "payee")
	colCategory := h.exact("category")
	colType := h.exact("type", "transaction type")
	colAccount, colNumber := accountColumns(h)

	res := &Result{}
	for i, rec := range records[1:] {
		line := i + 2
		value := cell(rec, colDate)
		if value == "" {
			value = cell(rec, colPostDate)
		}
		date, ok := parseDateCell(res, line, value)
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, RawRow{
			Line:          line,
			Date:          date,
			Description:   rawCell(rec, colDesc),
			Amount:        cell(rec, colAmount),
			TxnType:       cell(rec, colType),
			Category:      cell(rec, colCategory),
			Account:       cell(rec, colAccount),
			AccountNumber: cell(rec, colNumber),
		})
	}
	return res, nil
}
