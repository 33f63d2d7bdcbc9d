package importer

import (
	"fmt"
	"time"
)

// BankParser parses bank exports with separate Debit and Credit columns and a
// transaction type column, e.g.
//
//	Date,Transaction Type,Description,Debit,Credit
type BankParser struct{}

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Detect accepts headers with both a debit and a credit column.
func (p *BankParser) Detect(row []string) bool {
	h := newHeader(row)
	return h.exact("debit") >= 0 && h.exact("credit") >= 0
}

// Parse extracts rows from a bank CSV.
func (p *BankParser) Parse(records [][]string) (*Result, error) {
	h := newHeader(records[0])

	colDate := h.firstOf([]string{"date", "transaction date", "posting date", "post date"}, "date")
	if colDate < 0 {
		return nil, fmt.Errorf("%w: date", ErrMissingColumn)
	}
	colDesc := h.firstOf([]string{"description"}, "description", "payee", "merchant", "memo")
	colType := h.exact("transaction type", "type")
	colDebit := h.exact("debit")
	colCredit := h.exact("credit")
	colCategory := h.exact("category")
	colAccount, colNumber := accountColumns(h)

	res := &Result{}
	for i, rec := range records[1:] {
		line := i + 2
		date, ok := parseDateCell(res, line, cell(rec, colDate))
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, RawRow{
			Line:          line,
			Date:          date,
			Description:   rawCell(rec, colDesc),
			Debit:         cell(rec, colDebit),
			Credit:        cell(rec, colCredit),
			TxnType:       cell(rec, colType),
			Category:      cell(rec, colCategory),
			Account:       cell(rec, colAccount),
			AccountNumber: cell(rec, colNumber),
		})
	}
	return res, nil
}

// parseDateCell parses a date value. A blank value yields the zero time so the
// normalizer can reject the row; an unparseable value is recorded as a problem.
func parseDateCell(res *Result, line int, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := ParseDate(value)
	if err != nil {
		res.skip(line, "date", value, err)
		return time.Time{}, false
	}
	return t, true
}
