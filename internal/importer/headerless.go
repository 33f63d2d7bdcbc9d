package importer

import (
	"fmt"
	"strings"
)

// HeaderlessParser parses five-column bank exports that have no header row:
//
//	date,amount,*,check number,description
type HeaderlessParser struct{}

const (
	headerlessNumFields = 5
	headerlessColDate   = 0
	headerlessColAmount = 1
	headerlessColDesc   = 4
)

// Format returns the parser name.
func (p *HeaderlessParser) Format() string { return "headerless" }

// Detect accepts files whose first row is already a dated data row.
func (p *HeaderlessParser) Detect(row []string) bool {
	return len(row) >= headerlessNumFields && looksLikeDate(strings.TrimSpace(row[headerlessColDate]))
}

// Parse extracts rows from every record, the first one included.
func (p *HeaderlessParser) Parse(records [][]string) (*Result, error) {
	res := &Result{}
	for i, rec := range records {
		line := i + 1
		if len(rec) < headerlessNumFields {
			res.skip(line, "record", strings.Join(rec, ","), fmt.Errorf("%w: expected %d fields, got %d", ErrMissingColumn, headerlessNumFields, len(rec)))
			continue
		}
		date, ok := parseDateCell(res, line, cell(rec, headerlessColDate))
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, RawRow{
			Line:        line,
			Date:        date,
			Description: rawCell(rec, headerlessColDesc),
			Amount:      cell(rec, headerlessColAmount),
		})
	}
	return res, nil
}
