// Package normalize turns parsed CSV rows into canonical transactions.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aadjones/pumpkin-stats/internal/accounts"
	"github.com/aadjones/pumpkin-stats/internal/id"
	"github.com/aadjones/pumpkin-stats/internal/importer"
	"github.com/aadjones/pumpkin-stats/internal/model"
)

// Placeholder replaces a blank description.
const Placeholder = "(no description)"

// MaxAmount bounds the absolute value of a single transaction.
var MaxAmount = decimal.NewFromInt(1_000_000)

// ValidationError means a row is missing a mandatory field or carries an
// implausible value. The row is dropped.
type ValidationError struct {
	File   string
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s line %d: %s: %s", e.File, e.Line, e.Field, e.Reason)
}

// Record is a normalized row with the account it was attributed to.
// Category is left empty for the categorizer.
type Record struct {
	Transaction model.Transaction
	Account     model.Account
}

// Normalizer converts raw rows. It holds no per-batch state.
type Normalizer struct {
	resolver *accounts.Resolver
}

// New creates a Normalizer that attributes rows through resolver.
func New(resolver *accounts.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Row normalizes one raw row of file. It returns a *ValidationError for
// missing or implausible fields and an *importer.ParseError for an
// unparseable amount.
func (n *Normalizer) Row(file *importer.File, raw importer.RawRow) (Record, error) {
	invalid := func(field, reason string) error {
		return &ValidationError{File: file.Name, Line: raw.Line, Field: field, Reason: reason}
	}

	if raw.Date.IsZero() {
		return Record{}, invalid("date", "missing")
	}

	res := n.resolver.Resolve(file.Name, file.Format, raw)
	if strings.TrimSpace(res.Account.Name) == "" {
		return Record{}, invalid("account", "could not resolve an account label")
	}

	amount, err := signedAmount(file.Name, raw)
	if err != nil {
		return Record{}, err
	}
	if amount == nil {
		return Record{}, invalid("amount", "missing")
	}
	a := amount.Round(2)
	if res.InvertSign {
		a = a.Neg()
	}
	if a.IsZero() {
		return Record{}, invalid("amount", "zero amount")
	}
	if a.Abs().GreaterThan(MaxAmount) {
		return Record{}, invalid("amount", fmt.Sprintf("%s exceeds %s", a.StringFixed(2), MaxAmount.String()))
	}

	desc := CleanDescription(raw.Description)
	tx := model.Transaction{
		ID:                  id.Transaction(raw.Date, desc, a, res.Account.Name),
		Date:                raw.Date,
		Description:         desc,
		RawDescription:      raw.Description,
		Amount:              a,
		Account:             res.Account.Name,
		CategorySource:      model.CategorySourceAuto,
		Source:              res.Source,
		TxnType:             strings.TrimSpace(raw.TxnType),
		InstitutionCategory: strings.TrimSpace(raw.Category),
	}
	return Record{Transaction: tx, Account: res.Account}, nil
}

// signedAmount returns nil when no amount cell is populated. A debit is
// always negative and a credit always positive, whatever sign the cell had.
// A zero-filled debit or credit cell yields to the other side.
func signedAmount(fileName string, raw importer.RawRow) (*decimal.Decimal, error) {
	parse := func(field, value string) (decimal.Decimal, error) {
		d, err := importer.ParseAmount(value)
		if err != nil {
			return d, &importer.ParseError{File: fileName, Line: raw.Line, Field: field, Value: value, Err: err}
		}
		return d, nil
	}

	if !importer.IsBlank(raw.Amount) {
		d, err := parse("amount", raw.Amount)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}

	var zero *decimal.Decimal
	if !importer.IsBlank(raw.Debit) {
		d, err := parse("debit", raw.Debit)
		if err != nil {
			return nil, err
		}
		if !d.IsZero() {
			d = d.Abs().Neg()
			return &d, nil
		}
		zero = &d
	}
	if !importer.IsBlank(raw.Credit) {
		d, err := parse("credit", raw.Credit)
		if err != nil {
			return nil, err
		}
		if !d.IsZero() {
			d = d.Abs()
			return &d, nil
		}
		zero = &d
	}
	return zero, nil
}

// CleanDescription collapses runs of whitespace and substitutes Placeholder
// for a blank description.
func CleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Placeholder
	}
	return s
}
