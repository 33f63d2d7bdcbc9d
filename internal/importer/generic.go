package importer

import "fmt"

// GenericParser is the best-effort fallback. It looks for any column whose
// name contains "date", "amount" and "description" (case-insensitive). When
// there is no amount column, separate "debit"/"credit" columns are accepted.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Detect accepts any header; Parse rejects files without usable columns.
func (p *GenericParser) Detect([]string) bool { return true }

// Parse extracts rows from a CSV with an arbitrary header.
func (p *GenericParser) Parse(records [][]string) (*Result, error) {
	h := newHeader(records[0])

	colDate := h.containing("date")
	colAmount := h.containing("amount")
	colDebit, colCredit := -1, -1
	if colAmount < 0 {
		colDebit, colCredit = h.containing("debit"), h.containing("credit")
	}
	if colDate < 0 || (colAmount < 0 && (colDebit < 0 || colCredit < 0)) {
		return nil, fmt.Errorf("%w: need a date column and an amount column", ErrNoHeader)
	}

	colDesc := h.firstOf([]string{"description", "name"}, "description", "payee", "merchant", "memo")
	colCategory := h.containing("category")
	colType := h.exact("type", "transaction type")
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
			Amount:        cell(rec, colAmount),
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
