package id

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// ErrInvalidMonth is returned for month keys that are not "YYYY-MM".
var ErrInvalidMonth = errors.New("invalid month key")

// Transaction returns the dedup fingerprint of a transaction.
// The same (date, description, amount, account) always yields the same id.
func Transaction(date time.Time, description string, amount decimal.Decimal, account string) string {
	content := strings.Join([]string{
		date.Format(dateFormat),
		description,
		amount.StringFixed(2),
		account,
	}, "|")
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:16])
}

// Month is a calendar month key.
type Month struct {
	Year  int
	Month time.Month
}

// FormatMonth returns a month key like "2025-09".
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonth parses "2025-09" into a Month.
func ParseMonth(key string) (Month, error) {
	parts := strings.SplitN(strings.TrimSpace(key), "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("%w: year in %q", ErrInvalidMonth, key)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: month in %q", ErrInvalidMonth, key)
	}

	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String returns the "YYYY-MM" key.
func (m Month) String() string {
	return FormatMonth(m.Year, m.Month)
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first day of the following month (exclusive bound).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Add returns the month n months later (or earlier for negative n).
func (m Month) Add(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}
