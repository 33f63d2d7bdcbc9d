// Package export writes stored transactions as CSV that the generic importer
// reads back without creating new records.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Header is the CSV header of an export file.
const Header = "date,description,amount,account,category,category_source,exclude_from_budget,notes"

const (
	numFields    = 8
	dateFormat   = "2006-01-02"
	colDate      = 0
	colDesc      = 1
	colAmount    = 2
	colAccount   = 3
	colCategory  = 4
	colCatSource = 5
	colExclude   = 6
	colNotes     = 7
)

// FileName returns the export file name for a month key. It avoids the
// owner-type-institution pattern so the account column is used on re-import.
func FileName(month string) string {
	return "pumpkin_export_" + month + ".csv"
}

// MarshalRow converts a transaction to a CSV row. The description is the
// cleaned one, so re-importing yields the same fingerprint.
func MarshalRow(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date.Format(dateFormat)
	row[colDesc] = tx.Description
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colAccount] = tx.Account
	row[colCategory] = tx.Category
	row[colCatSource] = string(tx.CategorySource)
	row[colExclude] = strconv.FormatBool(tx.Exclude)
	row[colNotes] = tx.Notes
	return row
}

// Write writes txs to w, header included.
func Write(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalRow(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
