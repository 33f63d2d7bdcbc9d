package model

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySource records who assigned a transaction's category.
type CategorySource string

const (
	CategorySourceAuto   CategorySource = "auto"
	CategorySourceManual CategorySource = "manual"
)

// SourceKind is the shape of the export a transaction came from.
type SourceKind string

const (
	SourceBank SourceKind = "bank"
	SourceCard SourceKind = "card"
)

// Classification is the budget role of a transaction.
type Classification string

const (
	ClassIncome   Classification = "income"
	ClassSpending Classification = "spending"
	ClassTransfer Classification = "transfer"
	ClassExcluded Classification = "excluded"
	// ClassOther is an inflow outside the Income category; it counts toward neither total.
	ClassOther Classification = "other"
)

// Transaction is the canonical stored record.
type Transaction struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	RawDescription string          `json:"raw_description"`
	Amount         decimal.Decimal `json:"amount"` // negative = outflow, positive = inflow
	Account        string          `json:"account"`
	Category       string          `json:"category"`
	CategorySource CategorySource  `json:"category_source"`
	Exclude        bool            `json:"exclude_from_budget"`
	Notes          string          `json:"manual_notes"`

	// Source hints kept so auto categories can be recomputed.
	Source              SourceKind `json:"source"`
	TxnType             string     `json:"txn_type,omitempty"`
	InstitutionCategory string     `json:"institution_category,omitempty"`

	// ImportBatch identifies the ingest run that first stored the record.
	ImportBatch string `json:"import_batch,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Classify derives the budget role from category, sign and exclusion flag.
func (t Transaction) Classify() Classification {
	switch {
	case t.Exclude:
		return ClassExcluded
	case IsTransferCategory(t.Category):
		return ClassTransfer
	case t.Amount.IsNegative():
		return ClassSpending
	case t.Amount.IsPositive() && t.Category == CategoryIncome:
		return ClassIncome
	default:
		return ClassOther
	}
}

// InMonth reports whether the transaction date falls in year/month.
func (t Transaction) InMonth(year int, month time.Month) bool {
	return t.Date.Year() == year && t.Date.Month() == month
}

// SortTransactions orders by date descending, amount descending, then id.
func SortTransactions(txs []Transaction) {
	slices.SortFunc(txs, func(a, b Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
